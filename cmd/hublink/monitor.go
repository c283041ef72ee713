package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/hub"
	"github.com/muurk/hublink/internal/protocol"
	"github.com/muurk/hublink/internal/tui"
)

var monitorInterval int

func init() {
	monitorCmd.Flags().IntVar(&monitorInterval, "interval", 0, "Poll interval in seconds (default from config)")

	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live device status dashboard",
	Long: `Open a full-screen dashboard that polls the hub for device status
and shows every device's live state. The connection indicator tracks
reconnects. Press q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(func(ctx context.Context, conn *hub.Connection, reg *config.Registry) error {
			statusCh := make(chan tui.StatusMsg, 4)
			connCh := make(chan tui.ConnMsg, 4)

			// Non-blocking sends: the UI drains one message per
			// redraw and a stalled terminal must not stall polling.
			conn.SetDeviceStatusHandler(func(devices []protocol.Device) {
				select {
				case statusCh <- tui.StatusMsg{HubID: conn.HubID(), Devices: devices}:
				default:
				}
			})
			pushConn := func(err error) {
				select {
				case connCh <- tui.ConnMsg{State: conn.State().String(), Err: err}:
				default:
				}
			}
			conn.SetConnectedHandler(func() { pushConn(nil) })
			conn.SetDisconnectedHandler(pushConn)

			interval := time.Duration(monitorInterval) * time.Second
			if interval <= 0 {
				if reg.Hub != nil && reg.Hub.PollInterval > 0 {
					interval = time.Duration(reg.Hub.PollInterval) * time.Second
				} else {
					interval = hub.DefaultPollInterval
				}
			}
			conn.StartPolling(interval)

			// Status responses carry short addresses only, so fetch
			// the device database once to map addresses to the MACs
			// nicknames are keyed by. Best effort.
			macByAddr := map[uint16]string{}
			if devices, err := conn.ListDevicesFull(ctx); err == nil {
				for _, d := range devices {
					macByAddr[d.ShortAddress] = d.MACAddress
				}
			}
			nameOf := func(d protocol.Device) string {
				return reg.DisplayName(macByAddr[d.ShortAddress], "")
			}

			pushConn(nil)
			return tui.Run(statusCh, connCh, nameOf)
		})
	},
}
