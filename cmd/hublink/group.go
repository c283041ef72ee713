package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/hub"
)

func init() {
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupShowCmd)
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupUpdateCmd)
	groupCmd.AddCommand(groupDeleteCmd)
	groupCmd.AddCommand(groupMembersCmd)

	rootCmd.AddCommand(groupCmd)
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage device groups",
	Long: `Manage the hub's device groups. A group has its own short address,
so switch, dim and temp commands accept group addresses anywhere they
accept device addresses.`,
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List group IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			ids, err := conn.ListGroups(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("No groups defined.")
				return nil
			}
			fmt.Printf("%d group(s):\n", len(ids))
			for _, id := range ids {
				fmt.Printf("  0x%04X\n", id)
			}
			return nil
		})
	},
}

var groupShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a group's members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			g, err := conn.ReadGroup(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Group 0x%04X, %d member(s):\n", g.ID, len(g.Members))
			for _, m := range g.Members {
				fmt.Printf("  0x%04X\n", m)
			}
			return nil
		})
	},
}

var groupCreateCmd = &cobra.Command{
	Use:     "create <address>...",
	Short:   "Create a group from device addresses",
	Example: `  hublink group create 0x0028 0x0029 0x002A`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		members, err := parseAddrs(args)
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			id, err := conn.CreateGroup(ctx, members)
			if err != nil {
				return err
			}
			fmt.Printf("Group 0x%04X created with %d member(s).\n", id, len(members))
			return nil
		})
	},
}

var groupUpdateCmd = &cobra.Command{
	Use:   "update <id> <address>...",
	Short: "Replace a group's member list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		members, err := parseAddrs(args[1:])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.UpdateGroup(ctx, id, members); err != nil {
				return err
			}
			fmt.Printf("Group 0x%04X now has %d member(s).\n", id, len(members))
			return nil
		})
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			if err := conn.DeleteGroup(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Group 0x%04X deleted.\n", id)
			return nil
		})
	},
}

var groupMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "List every device that belongs to any group",
	Long: `Resolve the membership of all groups into one flat device set.
Groups that cannot be read are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, _ *config.Registry) error {
			members, err := conn.ResolveGroupMembership(ctx)
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Println("No devices belong to a group.")
				return nil
			}
			addrs := make([]uint16, 0, len(members))
			for a := range members {
				addrs = append(addrs, a)
			}
			sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
			fmt.Printf("%d device(s) in groups:\n", len(addrs))
			for _, a := range addrs {
				fmt.Printf("  0x%04X\n", a)
			}
			return nil
		})
	},
}
