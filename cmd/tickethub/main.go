package main

import (
	"os"

	"github.com/spf13/cobra"

	"tickethub/internal/interfaces/cli/migrate"
	"tickethub/internal/interfaces/cli/status"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tickethub",
		Short: "Tickethub - support ticket storage engine",
		Long:  `Tickethub is the storage backend for support tickets: a cache-fronted embedded store, a networked SQL store, and administrative tooling to migrate between them.`,
	}

	rootCmd.AddCommand(
		migrate.NewCommand(),
		status.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
