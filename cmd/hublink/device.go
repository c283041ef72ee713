package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/hub"
)

var listFull bool

func init() {
	devicesCmd.Flags().BoolVar(&listFull, "full", false, "Include device MAC addresses (slower)")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(dimCmd)
	rootCmd.AddCommand(tempCmd)
	rootCmd.AddCommand(fanCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices registered on the hub",
	Long: `List the hub's device database.

With --full the listing includes each device's MAC address, which is
what nicknames are keyed by.`,
	Example: `  hublink devices
  hublink devices --full`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, reg *config.Registry) error {
			list := conn.ListDevices
			if listFull {
				list = conn.ListDevicesFull
			}
			devices, err := list(ctx)
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("No devices registered.")
				fmt.Println("Use 'hublink pair' to open the pairing window.")
				return nil
			}
			fmt.Printf("%d device(s) registered:\n\n", len(devices))
			printDevices(reg, devices)
			return nil
		})
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the mesh for devices that answer right now",
	Long: `Ask the hub to enumerate the devices currently reachable on its
radio mesh. Devices that are registered but asleep or out of range will
not appear; compare with 'hublink devices' to spot them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, reg *config.Registry) error {
			devices, err := conn.Discover(ctx)
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("No devices answered.")
				return nil
			}
			fmt.Printf("%d device(s) answered:\n\n", len(devices))
			printDevices(reg, devices)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [address...]",
	Short: "Query live device state",
	Long: `Query the live state of devices. Without arguments every device is
queried through the broadcast address.`,
	Example: `  # All devices
  hublink status

  # One light
  hublink status 0x0028`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addrs, err := parseAddrs(args)
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, reg *config.Registry) error {
			devices, err := conn.Status(ctx, addrs...)
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("No devices reported state.")
				return nil
			}
			printDevices(reg, devices)
			return nil
		})
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch on|off <address>...",
	Short: "Switch devices or groups on or off",
	Example: `  hublink switch on 0x0028
  hublink switch off 0x0028 0x0031`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch args[0] {
		case "on":
			on = true
		case "off":
			on = false
		default:
			return fmt.Errorf("first argument must be on or off, got %q", args[0])
		}
		addrs, err := parseAddrs(args[1:])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.SetPower(ctx, on, addrs...); err != nil {
				return err
			}
			fmt.Printf("Switched %d device(s) %s.\n", len(addrs), args[0])
			return nil
		})
	},
}

var dimCmd = &cobra.Command{
	Use:   "dim <level> <address>...",
	Short: "Set light brightness (0-255)",
	Example: `  hublink dim 128 0x0028
  hublink dim 255 0x0028 0x0029`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid brightness %q (want 0-255)", args[0])
		}
		addrs, err := parseAddrs(args[1:])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.SetBrightness(ctx, uint8(level), addrs...); err != nil {
				return err
			}
			fmt.Printf("Brightness set to %d on %d light(s).\n", level, len(addrs))
			return nil
		})
	},
}

var tempCmd = &cobra.Command{
	Use:   "temp <mireds> <address>...",
	Short: "Set light color temperature in mireds",
	Long: `Set the color temperature of one or more lights. The value is in
mireds (micro reciprocal degrees): 153 is cold white, 370 warm white.`,
	Example: `  hublink temp 370 0x0028`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mireds, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid color temperature %q", args[0])
		}
		addrs, err := parseAddrs(args[1:])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.SetColorTemperature(ctx, uint16(mireds), addrs...); err != nil {
				return err
			}
			fmt.Printf("Color temperature set to %d mireds on %d light(s).\n", mireds, len(addrs))
			return nil
		})
	},
}

var fanCmd = &cobra.Command{
	Use:   "fan <speed> <address>",
	Short: "Set fan speed (0 stops the fan)",
	Example: `  hublink fan 2 0x0031
  hublink fan 0 0x0031`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid fan speed %q", args[0])
		}
		addr, err := parseAddr(args[1])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.SetFanSpeed(ctx, uint8(speed), addr); err != nil {
				return err
			}
			fmt.Printf("Fan speed set to %d.\n", speed)
			return nil
		})
	},
}
