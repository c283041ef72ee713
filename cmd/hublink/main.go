// Hublink is a local control client for hub-based smart home systems.
//
// It discovers hubs on the local network, speaks their encrypted TCP
// control protocol, and provides commands for switching, dimming,
// pairing, grouping and monitoring the devices behind a hub.
//
// Usage:
//
//	hublink [command] [flags]
//
// See 'hublink --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/hublink/internal/logging"
	"github.com/muurk/hublink/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hublink",
	Short: "Hub control client",
	Long: `A local control client for hub-based smart home systems.

Discovers hubs on the local network and controls the lights, fans and
plugs behind them over the hub's encrypted TCP protocol. Device
nicknames and the default hub live in a per-user config file.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hublink %s\n", version.Full())
	},
}
