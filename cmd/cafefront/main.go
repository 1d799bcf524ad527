package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/cafefront/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var apiURL string

var rootCmd = &cobra.Command{
	Use:           "cafefront",
	Short:         "Cafe ordering web client",
	Long:          "cafefront serves the cafe's customer menu and admin panel on top of the cafe REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if apiURL != "" {
			config.Set("API_URL", apiURL)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "cafe API base URL (overrides API_URL)")

	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Terminal ordering
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(orderCmd)
}
