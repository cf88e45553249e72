package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations opens a connection to the database and runs all pending
// migrations from the given directory.
func RunMigrations(databaseURL, migrationsDir string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// SchemaVersion is the newest migration this build depends on.
const SchemaVersion int64 = 6

// SchemaCheck reports whether the database schema is recent enough for
// this build. It is a readiness check and reuses the application pool.
type SchemaCheck struct {
	db      *sql.DB
	minimum int64
}

func NewSchemaCheck(pool *pgxpool.Pool, minimum int64) *SchemaCheck {
	return &SchemaCheck{db: stdlib.OpenDBFromPool(pool), minimum: minimum}
}

// Ping fails while migrations up to the minimum version are missing.
func (c *SchemaCheck) Ping(ctx context.Context) error {
	version, err := goose.GetDBVersionContext(ctx, c.db)
	if err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}
	return checkVersion(version, c.minimum)
}

// Close releases the database/sql wrapper. The pool stays open.
func (c *SchemaCheck) Close() error {
	return c.db.Close()
}

func checkVersion(version, minimum int64) error {
	if version < minimum {
		return fmt.Errorf("schema version %d is behind %d, run migrations", version, minimum)
	}
	return nil
}
