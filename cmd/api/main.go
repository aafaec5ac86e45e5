package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/districhem/backoffice/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backoffice",
		Short: "Districhem back-office server",
		Long:  `Districhem back-office exposes the catalog, taxonomy, user and history tables stored in the content repository, with an admin API on top.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
