// Package database is the persistence collaborator: sqlx repositories for
// the word catalog, the committed memory states and the append-only review
// event log. SQLite is the default engine; set DB_TYPE=postgres and
// DATABASE_URL to use PostgreSQL.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection.
var DB *sqlx.DB

// Type returns the configured database type ("sqlite" or "postgres").
func Type() string {
	if t := os.Getenv("DB_TYPE"); t != "" {
		return t
	}
	return "sqlite"
}

// Connect establishes the database connection and initializes the schema.
func Connect() error {
	var (
		db  *sqlx.DB
		err error
	)
	switch Type() {
	case "postgres":
		db, err = sqlx.Connect("postgres", os.Getenv("DATABASE_URL"))
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			if err := os.MkdirAll("data", 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			path = filepath.Join("data", "wordbrain.db")
		}
		db, err = sqlx.Connect("sqlite3", path)
		if err != nil {
			return fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// ConnectTest opens an in-memory SQLite database. Used by tests.
func ConnectTest() error {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open in-memory sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	DB = db
	return initializeSchema()
}

// Close closes the database connection.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// serialPK returns the primary-key column DDL for the active database type.
func serialPK() string {
	if Type() == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initializeSchema creates the tables if they don't exist.
func initializeSchema() error {
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS words (
			id %s,
			word TEXT NOT NULL UNIQUE,
			translation TEXT NOT NULL,
			examples TEXT NOT NULL DEFAULT '',
			frequency_rank INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, serialPK()),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS memory_states (
			id %s,
			user_id BIGINT NOT NULL,
			word_id BIGINT NOT NULL,
			stability REAL NOT NULL,
			difficulty REAL NOT NULL,
			retrievability REAL NOT NULL,
			review_count INTEGER NOT NULL DEFAULT 0,
			lapse_count INTEGER NOT NULL DEFAULT 0,
			last_review_date TIMESTAMP NOT NULL,
			next_review_date TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE(user_id, word_id)
		)`, serialPK()),
		`
		CREATE TABLE IF NOT EXISTS review_events (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			word_id BIGINT NOT NULL,
			grade INTEGER NOT NULL,
			review_date TIMESTAMP NOT NULL,
			scheduled_days REAL NOT NULL DEFAULT 0,
			duration_ms BIGINT,
			committed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (word_id) REFERENCES words(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memory_states_due ON memory_states(user_id, next_review_date)`,
		`CREATE INDEX IF NOT EXISTS idx_review_events_word ON review_events(user_id, word_id, review_date)`,
	}
	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
