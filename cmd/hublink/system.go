package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/hub"
)

var pairWindow int

func init() {
	pairCmd.Flags().IntVar(&pairWindow, "window", 0, "Pairing window in seconds (default from config)")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(firmwareCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(unpairCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(credentialsCmd)
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the hub answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			start := time.Now()
			if err := conn.Ping(ctx); err != nil {
				return err
			}
			fmt.Printf("Hub %s answered in %s.\n", conn.HubID(), time.Since(start).Round(time.Millisecond))
			return nil
		})
	},
}

var firmwareCmd = &cobra.Command{
	Use:   "firmware",
	Short: "Print the hub firmware version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			ver, err := conn.FirmwareVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Hub %s firmware %s\n", conn.HubID(), ver)
			return nil
		})
	},
}

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Open the pairing window for new devices",
	Long: `Tell the hub to accept new devices for a limited window. Put the
device into pairing mode while the window is open, then check
'hublink devices' to see it appear.`,
	Example: `  hublink pair
  hublink pair --window 120`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, reg *config.Registry) error {
			window := pairWindow
			if window == 0 && reg.Preferences != nil {
				window = reg.Preferences.PairWindow
			}
			if window <= 0 || window > 255 {
				return fmt.Errorf("pairing window must be 1-255 seconds, got %d", window)
			}
			if err := conn.EnableJoin(ctx, uint8(window)); err != nil {
				return err
			}
			fmt.Printf("Pairing window open for %d seconds.\n", window)
			fmt.Println("Put the new device into pairing mode now.")
			return nil
		})
	},
}

var unpairCmd = &cobra.Command{
	Use:   "unpair",
	Short: "Close the pairing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.DisableJoin(ctx); err != nil {
				return err
			}
			fmt.Println("Pairing window closed.")
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <mac>",
	Short: "Register a device by MAC address",
	Long: `Register a device directly by its 8-byte MAC address, skipping the
pairing window. The hub assigns and returns the device's short address.`,
	Example: `  hublink add 00:17:88:01:02:03:04:05`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mac, err := parseMAC(args[0])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			addr, err := conn.AddDevice(ctx, mac)
			if err != nil {
				return err
			}
			fmt.Printf("Device registered at 0x%04X.\n", addr)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "Remove a device from the hub",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.RemoveDevice(ctx, addr); err != nil {
				return err
			}
			fmt.Printf("Device 0x%04X removed.\n", addr)
			return nil
		})
	},
}

var credentialsCmd = &cobra.Command{
	Use:   "credentials <username>",
	Short: "Set the hub's cloud account credentials",
	Long: `Push cloud account credentials to the hub. The password is prompted
for interactively and is sent to the hub only; it is never written to
the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		fmt.Print("Password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if len(pw) == 0 {
			return fmt.Errorf("password must not be empty")
		}

		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.SetCredentials(ctx, username, string(pw)); err != nil {
				return err
			}
			fmt.Println("Credentials updated.")
			return nil
		})
	},
}
