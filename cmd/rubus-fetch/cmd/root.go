// Package cmd implements the rubus-fetch CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rubusproject/rubus/internal/version"
)

var (
	serverAddr string
	authToken  string
)

// rootCmd is the base command when rubus-fetch is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:     "rubus-fetch",
	Short:   "Diagnostic client for the Rubus streaming protocol",
	Version: version.Short(),
	Long: `rubus-fetch exercises a Rubus server's LIST/INFO/FETCH requests from
the command line, standing in for a full GUI playback shell.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "127.0.0.1:7453", "Rubus server address")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "authentication token")
}
