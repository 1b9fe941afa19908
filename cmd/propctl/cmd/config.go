package cmd

import (
	"fmt"

	"github.com/nfrund/propmgr/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the environment configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate required variables and print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		printConfig(cmd, cfg)
		return nil
	},
}

func printConfig(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "database:      %s (%s/%s)\n", cfg.GetDBUrl(), cfg.GetDBNs(), cfg.GetDBDb())
	fmt.Fprintf(out, "listen:        %s\n", cfg.GetServerAddr())
	fmt.Fprintf(out, "base url:      %s\n", cfg.GetAppBaseURL())
	fmt.Fprintf(out, "session ttl:   %s\n", cfg.GetSessionTTL())
	fmt.Fprintf(out, "google:        %t\n", cfg.GoogleEnabled())
	fmt.Fprintf(out, "email:         %s\n", cfg.GetEmailProvider())
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}
