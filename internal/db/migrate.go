package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Dialect names the SQL backend a migration runs against.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Migrate applies every pending migration to db and returns the schema
// version afterwards. db stays open; the caller owns it.
func Migrate(db *sql.DB, dialect Dialect) (uint, error) {
	var (
		driver database.Driver
		err    error
	)
	switch dialect {
	case DialectSQLite:
		driver, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	case DialectPostgres:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	default:
		return 0, fmt.Errorf("migrate: unknown dialect %q", dialect)
	}
	if err != nil {
		return 0, fmt.Errorf("migrate: %s driver: %w", dialect, err)
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return 0, fmt.Errorf("migrate: source: %w", err)
	}
	// m.Close would also close db, so only the source is released.
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}

	before, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("migrate: version: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate: up: %w", err)
	}
	after, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("migrate: version: %w", err)
	}
	if dirty {
		return after, fmt.Errorf("migrate: schema version %d is dirty", after)
	}
	if after != before {
		slog.Info("client_state schema migrated", "dialect", dialect, "from", before, "to", after)
	}
	return after, nil
}
