package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "clinicbill",
	Short: "Invoice and quotation service for clinics",
	Long: `clinicbill keeps a practice's invoices and quotations, walks them through
their lifecycle and renders them for the screen, PDF export and sharing.

Configuration is read from the environment and an optional .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "clinicbill: %v\n", err)
		os.Exit(1)
	}
}
