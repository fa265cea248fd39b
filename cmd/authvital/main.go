package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fed-stew/authvital-sub001/internal/interfaces/cli/migrate"
	"github.com/fed-stew/authvital-sub001/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "authvital",
		Short: "AuthVital license pool and entitlement engine",
		Long:  `AuthVital manages per-application seat inventory, license assignments, and app access records for multi-tenant deployments.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
