package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/smallbiznis/clinicbill/internal/config"
	"github.com/smallbiznis/clinicbill/internal/migration"
	"github.com/smallbiznis/clinicbill/internal/observability"
	"github.com/smallbiznis/clinicbill/pkg/db"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			config.Module,
			observability.Module,
			db.Module,
			migration.Module,
			fx.NopLogger,
		)
		if err := app.Err(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()
		if err := app.Start(ctx); err != nil {
			return err
		}
		return app.Stop(context.Background())
	},
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", time.Minute, "Maximum time to wait for the schema migration")
}
