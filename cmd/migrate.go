package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/internal/store"
	"github.com/frahmantamala/employee-api/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "prepare the database schema (mongo indexes, goose migrations or sqlite automigrate)",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration (postgres only)")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	if migrateRollback {
		if cfg.Database.Driver != internal.DriverPostgres {
			return fmt.Errorf("rollback is only supported for the postgres driver, got %q", cfg.Database.Driver)
		}

		db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
		if err != nil {
			return fmt.Errorf("goose: failed to open DB: %w", err)
		}
		defer db.Close()

		if err := store.MigrateDown(ctx, db); err != nil {
			return err
		}
		lg.Info("rolled back latest migration")
		return nil
	}

	st, err := store.Open(ctx, cfg.Database, lg)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	return st.Migrate(ctx)
}
