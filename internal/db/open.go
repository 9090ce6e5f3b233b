package db

import (
	"context"
	"fmt"
	"io"

	"backoffice/internal/config"
	"backoffice/internal/session"
)

// Vault is a session.Vault that owns resources.
type Vault interface {
	session.Vault
	io.Closer
}

var (
	_ Vault = (*PGVault)(nil)
	_ Vault = (*SQLiteVault)(nil)
	_ Vault = (*MemoryVault)(nil)
	_ Vault = (*SealedVault)(nil)
)

// Open builds the vault selected by cfg.StoreDriver, sealed with
// cfg.VaultKey when one is set.
func Open(ctx context.Context, cfg *config.Config) (Vault, error) {
	v, err := openStore(ctx, cfg)
	if err != nil || cfg.VaultKey == "" {
		return v, err
	}
	sealed, err := NewSealedVault(v, []byte(cfg.VaultKey))
	if err != nil {
		v.Close()
		return nil, err
	}
	return sealed, nil
}

func openStore(ctx context.Context, cfg *config.Config) (Vault, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPGVault(pool), nil
	case "sqlite":
		v, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "memory":
		return NewMemoryVault(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
