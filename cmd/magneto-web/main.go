package main

import (
	"fmt"
	"os"

	"github.com/magnetomarketing/magneto-web/internal/application/startup"
	"github.com/spf13/cobra"
)

// rootCmd serves the site when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "magneto-web",
	Short: "Magneto Marketing website server",
	Long: `magneto-web renders the marketing site from the headless CMS and
serves the contact, subscribe and download endpoints.`,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPingCMSCmd())
	rootCmd.AddCommand(newLeadsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := startup.Initialize(); err != nil {
		return fmt.Errorf("application startup failed: %w", err)
	}
	cmd.Println("Application has shut down gracefully.")
	return nil
}
