package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propctl",
	Short: "Property Manager admin tool",
	Long: `propctl administers a Property Manager installation.

Available commands:
  user create      Create an email/password account
  config check     Validate the environment configuration

Use "propctl [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
