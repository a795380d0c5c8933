// Package config loads application settings: environment variables (with an
// optional .env file) for runtime wiring, and an optional TOML file for
// memory-model tuning parameters.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/example/wordbrain/internal/memory"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	// UserID is the learner the CLI acts for.
	UserID int64
	// SessionLimit caps the number of cards per review session.
	SessionLimit int
	// TargetRetention is the recall probability the scheduler aims for.
	TargetRetention float64
	// ParamsPath points at the optional memory-model TOML file.
	ParamsPath string
}

// Load reads the configuration. A .env file in the working directory is
// applied first when present; missing variables fall back to defaults.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		UserID:          envInt64("WORDBRAIN_USER_ID", 1),
		SessionLimit:    envInt("WORDBRAIN_SESSION_LIMIT", 20),
		TargetRetention: envFloat("WORDBRAIN_TARGET_RETENTION", memory.DefaultTargetRetention),
		ParamsPath:      envString("WORDBRAIN_PARAMS_PATH", "params.toml"),
	}
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(name string, fallback int64) int64 {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
