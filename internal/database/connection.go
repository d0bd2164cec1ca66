package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed sql/schema.sql
var schemaSQL string

// MemoryDSN opens a private in-memory database, used by tests
const MemoryDSN = ":memory:"

// GetDBPath returns ~/.config/ytgoat/ytgoat.db, creating the directory if needed
func GetDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".config", "ytgoat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "ytgoat.db"), nil
}

func InitDB() (*sql.DB, *Queries, error) {
	dbPath, err := GetDBPath()
	if err != nil {
		return nil, nil, err
	}
	return OpenDB(dbPath)
}

// OpenDB opens the database at dsn, creates the base schema and applies
// pending migrations.
func OpenDB(dsn string) (*sql.DB, *Queries, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, err
	}

	// A single connection keeps in-memory databases shared and avoids
	// SQLITE_BUSY between the log handler and the settings writes.
	db.SetMaxOpenConns(1)

	if err := createTables(db, schemaSQL); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	queries := New(db)
	return db, queries, nil
}

func createTables(db *sql.DB, schemaSQL string) error {
	_, err := db.Exec(schemaSQL)
	return err
}
