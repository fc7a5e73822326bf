package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/smallbiznis/clinicbill/internal/clock"
	"github.com/smallbiznis/clinicbill/internal/config"
	"github.com/smallbiznis/clinicbill/internal/invoice"
	"github.com/smallbiznis/clinicbill/internal/migration"
	"github.com/smallbiznis/clinicbill/internal/observability"
	"github.com/smallbiznis/clinicbill/internal/providers/pdf"
	"github.com/smallbiznis/clinicbill/internal/server"
	"github.com/smallbiznis/clinicbill/pkg/db"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Example: `  # Serve on the address from HTTP_ADDR (default :8080)
  clinicbill serve`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			// Core Infrastructure
			config.Module,
			observability.Module,
			fx.Provide(RegisterSnowflake),
			db.Module,
			clock.Module,
			migration.Module,

			// Functional Domains
			pdf.Module,
			invoice.Module,
			server.Module,
		)
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
