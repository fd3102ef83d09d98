package main

import (
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending PostgreSQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Storage != config.StoragePostgres {
			return fmt.Errorf("migrate needs STORAGE_DRIVER=%s, got %s", config.StoragePostgres, cfg.Storage)
		}

		db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2, MinConns: 1})
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := postgresql.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
		}
		return nil
	},
}
