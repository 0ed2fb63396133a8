package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/config"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/postgres/migrations"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage PostgreSQL schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.DriverPostgres {
				return fmt.Errorf("%w: migrations apply to the postgres driver only, got %q",
					config.ErrInvalidConfig, cfg.Storage.Driver)
			}

			log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer log.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			db, err := openPostgresDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return migrations.Up(ctx, db, log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List embedded migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := migrations.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	return cmd
}
