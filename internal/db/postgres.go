package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGVault stores client state in PostgreSQL.
type PGVault struct {
	pool *pgxpool.Pool
}

// NewPGVault wraps an open pool. Run EnsureSchema first.
func NewPGVault(pool *pgxpool.Pool) *PGVault {
	return &PGVault{pool: pool}
}

func (v *PGVault) Get(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	err := v.pool.QueryRow(ctx,
		"SELECT value FROM client_state WHERE profile = $1 AND key = $2",
		profile, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client_state %s/%s: %w", profile, key, err)
	}
	return value, true, nil
}

func (v *PGVault) Put(ctx context.Context, profile, key, value string) error {
	_, err := v.pool.Exec(ctx, `
		INSERT INTO client_state (profile, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("store client_state %s/%s: %w", profile, key, err)
	}
	return nil
}

func (v *PGVault) Delete(ctx context.Context, profile, key string) error {
	_, err := v.pool.Exec(ctx,
		"DELETE FROM client_state WHERE profile = $1 AND key = $2",
		profile, key,
	)
	if err != nil {
		return fmt.Errorf("delete client_state %s/%s: %w", profile, key, err)
	}
	return nil
}

// Close releases the pool.
func (v *PGVault) Close() error {
	v.pool.Close()
	return nil
}
