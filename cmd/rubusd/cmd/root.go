// Package cmd implements the rubusd CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rubusproject/rubus/internal/version"
)

var cfgFile string

// rootCmd is the base command when rubusd is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:     "rubusd",
	Short:   "Rubus media streaming server",
	Version: version.Short(),
	Long: `rubusd serves the Rubus application-level streaming protocol:
a catalog of media over LIST/INFO/FETCH requests, framed over TCP.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search ./rubus.yaml, $HOME/rubus.yaml)")
}
