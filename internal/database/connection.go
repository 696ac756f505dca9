package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config describes how to reach the database.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Connect opens the database and makes sure the schema exists.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		if err := ensureDataDir(cfg.DSN); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// single writer; also keeps an in-memory database on one connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := sqliteSchema
	if db.DriverName() == DriverPostgres {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

func ensureDataDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS languages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		language_id INTEGER NOT NULL REFERENCES languages(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT 'beginner',
		sort_order INTEGER NOT NULL DEFAULT 0,
		UNIQUE(language_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id INTEGER NOT NULL REFERENCES topics(id),
		word TEXT NOT NULL,
		translation TEXT NOT NULL,
		pronunciation TEXT NOT NULL DEFAULT '',
		part_of_speech TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT 'beginner',
		frequency INTEGER NOT NULL DEFAULT 5,
		UNIQUE(word, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS review_records (
		learner_id INTEGER NOT NULL,
		word_id INTEGER NOT NULL REFERENCES words(id),
		ease_factor REAL NOT NULL DEFAULT 2.5,
		interval_days INTEGER NOT NULL DEFAULT 1,
		repetitions INTEGER NOT NULL DEFAULT 0,
		next_review_at TIMESTAMP NOT NULL,
		last_review_at TIMESTAMP,
		correct_count INTEGER NOT NULL DEFAULT 0,
		incorrect_count INTEGER NOT NULL DEFAULT 0,
		total_reviews INTEGER NOT NULL DEFAULT 0,
		last_difficulty INTEGER NOT NULL DEFAULT 0,
		first_learned_at TIMESTAMP NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (learner_id, word_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_records_due ON review_records (learner_id, next_review_at)`,
	`CREATE INDEX IF NOT EXISTS idx_words_topic ON words (topic_id, frequency)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS languages (
		id BIGSERIAL PRIMARY KEY,
		code VARCHAR(2) NOT NULL UNIQUE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id BIGSERIAL PRIMARY KEY,
		language_id BIGINT NOT NULL REFERENCES languages(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT 'beginner',
		sort_order INTEGER NOT NULL DEFAULT 0,
		UNIQUE(language_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id BIGSERIAL PRIMARY KEY,
		topic_id BIGINT NOT NULL REFERENCES topics(id),
		word TEXT NOT NULL,
		translation TEXT NOT NULL,
		pronunciation TEXT NOT NULL DEFAULT '',
		part_of_speech TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT 'beginner',
		frequency INTEGER NOT NULL DEFAULT 5,
		UNIQUE(word, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS review_records (
		learner_id BIGINT NOT NULL,
		word_id BIGINT NOT NULL REFERENCES words(id),
		ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
		interval_days INTEGER NOT NULL DEFAULT 1,
		repetitions INTEGER NOT NULL DEFAULT 0,
		next_review_at TIMESTAMPTZ NOT NULL,
		last_review_at TIMESTAMPTZ,
		correct_count INTEGER NOT NULL DEFAULT 0,
		incorrect_count INTEGER NOT NULL DEFAULT 0,
		total_reviews INTEGER NOT NULL DEFAULT 0,
		last_difficulty INTEGER NOT NULL DEFAULT 0,
		first_learned_at TIMESTAMPTZ NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (learner_id, word_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_records_due ON review_records (learner_id, next_review_at)`,
	`CREATE INDEX IF NOT EXISTS idx_words_topic ON words (topic_id, frequency)`,
}
