package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, int64(1), cfg.UserID)
	assert.Equal(t, 20, cfg.SessionLimit)
	assert.InDelta(t, 0.9, cfg.TargetRetention, 1e-9)
	assert.Equal(t, "params.toml", cfg.ParamsPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WORDBRAIN_USER_ID", "42")
	t.Setenv("WORDBRAIN_SESSION_LIMIT", "7")
	t.Setenv("WORDBRAIN_TARGET_RETENTION", "0.85")
	t.Setenv("WORDBRAIN_PARAMS_PATH", "/etc/wordbrain/params.toml")

	cfg := Load()
	assert.Equal(t, int64(42), cfg.UserID)
	assert.Equal(t, 7, cfg.SessionLimit)
	assert.InDelta(t, 0.85, cfg.TargetRetention, 1e-9)
	assert.Equal(t, "/etc/wordbrain/params.toml", cfg.ParamsPath)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("WORDBRAIN_SESSION_LIMIT", "twenty")
	t.Setenv("WORDBRAIN_TARGET_RETENTION", "high")

	cfg := Load()
	assert.Equal(t, 20, cfg.SessionLimit)
	assert.InDelta(t, 0.9, cfg.TargetRetention, 1e-9)
}
