package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteVault stores client state in a local SQLite file.
type SQLiteVault struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteVault, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; the vault is tiny.
	db.SetMaxOpenConns(1)

	if _, err := Migrate(db, DialectSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLiteVault{db: db}, nil
}

func (v *SQLiteVault) Get(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	err := v.db.QueryRowContext(ctx,
		"SELECT value FROM client_state WHERE profile = ? AND key = ?",
		profile, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client_state %s/%s: %w", profile, key, err)
	}
	return value, true, nil
}

func (v *SQLiteVault) Put(ctx context.Context, profile, key, value string) error {
	_, err := v.db.ExecContext(ctx, `
		INSERT INTO client_state (profile, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("store client_state %s/%s: %w", profile, key, err)
	}
	return nil
}

func (v *SQLiteVault) Delete(ctx context.Context, profile, key string) error {
	if _, err := v.db.ExecContext(ctx,
		"DELETE FROM client_state WHERE profile = ? AND key = ?", profile, key,
	); err != nil {
		return fmt.Errorf("delete client_state %s/%s: %w", profile, key, err)
	}
	return nil
}

// Close closes the database connection.
func (v *SQLiteVault) Close() error {
	return v.db.Close()
}
