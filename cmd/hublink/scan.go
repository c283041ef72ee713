package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/discovery"
)

var (
	scanTimeout int
	scanMDNS    bool
)

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Scan duration in seconds (default from config)")
	scanCmd.Flags().BoolVar(&scanMDNS, "mdns", true, "Also browse mDNS for hubs")

	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find hubs on the local network",
	Long: `Listen for hub announcement broadcasts and browse mDNS to find hubs
on the local network. Found hubs are remembered in the config file so
later commands can report when a hub was last seen.`,
	Example: `  hublink scan
  hublink scan --scan-timeout 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		scanner := discovery.NewScanner()
		if scanTimeout > 0 {
			scanner.Timeout = time.Duration(scanTimeout) * time.Second
		} else if reg.Preferences != nil && reg.Preferences.DiscoverTimeout > 0 {
			scanner.Timeout = time.Duration(reg.Preferences.DiscoverTimeout) * time.Second
		}

		fmt.Printf("Scanning for hubs (%s)...\n", scanner.Timeout)

		announced, err := scanner.ScanForHubs()
		if err != nil {
			return fmt.Errorf("announcement scan failed: %w", err)
		}

		hubs := announced
		if scanMDNS {
			ctx, cancel := context.WithTimeout(context.Background(), scanner.Timeout)
			defer cancel()

			mdns, err := scanner.ScanMDNS(ctx)
			if err != nil {
				// mDNS is best effort; the UDP announcements are the
				// authoritative channel.
				fmt.Printf("mDNS browse failed: %v\n", err)
			}
			hubs = discovery.MergeHubs(announced, mdns)
		}

		if len(hubs) == 0 {
			fmt.Println("\nNo hubs found.")
			fmt.Println("\nTroubleshooting:")
			fmt.Println("  1. Make sure the hub is powered and on the same subnet")
			fmt.Println("  2. Check that UDP port 1235 is not blocked")
			fmt.Println("  3. Try a longer scan: hublink scan --scan-timeout 30")
			return nil
		}

		fmt.Printf("\nFound %d hub(s):\n\n", len(hubs))
		for i, h := range hubs {
			fmt.Printf("%d. %s [%s]\n", i+1, h, h.Source)
			reg.UpdateHubLastSeen(h.Identifier, h.IP)
		}

		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		return nil
	},
}
