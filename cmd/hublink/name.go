package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/hublink/internal/config"
)

var nameRoom string

func init() {
	nameCmd.Flags().StringVar(&nameRoom, "room", "", "Also set the device's room")

	rootCmd.AddCommand(nameCmd)
}

var nameCmd = &cobra.Command{
	Use:   "name <mac> [nickname]",
	Short: "Set or clear a device nickname",
	Long: `Attach a nickname to a device's MAC address. Nicknames live in the
local config file, not on the hub, and show up in listings and in the
monitor view. An empty nickname clears it.

Use 'hublink devices --full' to look up MAC addresses.`,
	Example: `  hublink name 00:17:88:01:02:03:04:05 "Kitchen light"
  hublink name 00:17:88:01:02:03:04:05 "" --room Kitchen`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mac, err := parseMAC(args[0])
		if err != nil {
			return err
		}
		// Store the normalized colon form so lookups match the
		// hub's device listing.
		parts := make([]string, len(mac))
		for i, b := range mac {
			parts[i] = fmt.Sprintf("%02x", b)
		}
		key := strings.Join(parts, ":")

		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		if len(args) == 2 {
			reg.SetDeviceNickname(key, args[1])
		}
		if nameRoom != "" {
			reg.SetDeviceRoom(key, nameRoom)
		}

		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		meta := reg.GetDevice(key)
		if meta == nil || (meta.Nickname == "" && meta.Room == "") {
			fmt.Printf("%s: no nickname.\n", key)
			return nil
		}
		fmt.Printf("%s: nickname %q", key, meta.Nickname)
		if meta.Room != "" {
			fmt.Printf(", room %q", meta.Room)
		}
		fmt.Println()
		return nil
	},
}
