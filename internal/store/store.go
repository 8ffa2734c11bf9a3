// ABOUTME: Database connection management and initialization
// ABOUTME: Handles SQLite connection and schema creation

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Init initializes the database connection and creates schema.
func Init(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// DefaultPath returns the default database path following XDG standards.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "chost", "chost.db")
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER NOT NULL,
		project TEXT NOT NULL,
		headline TEXT NOT NULL,
		markdown TEXT NOT NULL,
		state INTEGER NOT NULL,
		adult_content BOOLEAN NOT NULL DEFAULT FALSE,
		tags TEXT NOT NULL DEFAULT '[]',
		cws TEXT NOT NULL DEFAULT '[]',
		recorded_at TIMESTAMP NOT NULL,
		PRIMARY KEY (project, id)
	);

	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		headline TEXT NOT NULL,
		markdown TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		cws TEXT NOT NULL DEFAULT '[]',
		adult_content BOOLEAN NOT NULL DEFAULT FALSE,
		attachments TEXT NOT NULL DEFAULT '[]',
		queued_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_project ON posts(project);
	CREATE INDEX IF NOT EXISTS idx_drafts_project ON drafts(project);
	`

	_, err := db.Exec(schema)
	return err
}
