package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/employee-api/db"
	"github.com/pressly/goose/v3"
)

const migrationsTable = "schema_migrations"

func prepareGoose() error {
	goose.SetBaseFS(db.Migrations)
	goose.SetTableName(migrationsTable)
	return goose.SetDialect("postgres")
}

// MigrateUp applies every pending postgres migration.
func MigrateUp(ctx context.Context, sqlDB *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, db.MigrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the latest postgres migration.
func MigrateDown(ctx context.Context, sqlDB *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if err := goose.DownContext(ctx, sqlDB, db.MigrationsDir); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}
