package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/discovery"
	"github.com/muurk/hublink/internal/hub"
	"github.com/muurk/hublink/internal/protocol"
)

// Connection command flags
var (
	hubHost    string
	hubPort    int
	cmdTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&hubHost, "host", "", "Hub IP address (skips discovery and config)")
	rootCmd.PersistentFlags().IntVar(&hubPort, "port", 0, "Hub control port (default 1234)")
	rootCmd.PersistentFlags().IntVar(&cmdTimeout, "timeout", 5, "Per-command timeout in seconds")
}

// hubConfig resolves the connection target: the --host flag wins, then
// the config file, then a quick discovery scan if the config allows it.
func hubConfig(reg *config.Registry) (hub.Config, error) {
	cfg := hub.Config{
		Host:           hubHost,
		Port:           hubPort,
		CommandTimeout: time.Duration(cmdTimeout) * time.Second,
	}

	if reg != nil && reg.Hub != nil {
		if cfg.Host == "" {
			cfg.Host = reg.Hub.Host
		}
		if cfg.Port == 0 {
			cfg.Port = reg.Hub.Port
		}
		cfg.ConnectTimeout = time.Duration(reg.Hub.ConnectTimeout) * time.Second
		cfg.KeepAliveInterval = time.Duration(reg.Hub.KeepAliveInterval) * time.Second
		cfg.ReconnectDelay = time.Duration(reg.Hub.ReconnectDelay) * time.Second
	}

	if cfg.Host == "" {
		if reg != nil && reg.Preferences != nil && !reg.Preferences.AutoDiscover {
			return cfg, fmt.Errorf("no hub configured: set hub.host in the config file or pass --host")
		}
		fmt.Println("No hub configured, scanning...")
		hubs, err := discovery.QuickScan()
		if err != nil {
			return cfg, fmt.Errorf("hub discovery failed: %w", err)
		}
		if len(hubs) == 0 {
			return cfg, fmt.Errorf("no hub found on the network: pass --host or configure hub.host")
		}
		if len(hubs) > 1 {
			return cfg, fmt.Errorf("found %d hubs, pass --host to pick one", len(hubs))
		}
		fmt.Printf("Using %s\n\n", hubs[0])
		cfg.Host = hubs[0].IP
		if cfg.Port == 0 {
			cfg.Port = hubs[0].Port
		}
	}

	return cfg, nil
}

// withConnection runs fn against a connected hub session and tears the
// session down afterwards.
func withConnection(fn func(ctx context.Context, conn *hub.Connection, reg *config.Registry) error) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	cfg, err := hubConfig(reg)
	if err != nil {
		return err
	}

	conn := hub.New(cfg)
	defer conn.Close()

	ctx := context.Background()
	if err := conn.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to hub at %s: %w", cfg.Host, err)
	}

	return fn(ctx, conn, reg)
}

// parseAddr parses one device or group short address: "0x0028", "0028"
// or "40".
func parseAddr(s string) (uint16, error) {
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s = rest
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q (want 0xNNNN or decimal)", s)
	}
	return uint16(v), nil
}

// parseAddrs parses every argument as an address.
func parseAddrs(args []string) ([]uint16, error) {
	addrs := make([]uint16, 0, len(args))
	for _, a := range args {
		addr, err := parseAddr(a)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// parseMAC parses an 8-byte device MAC, with or without separators.
func parseMAC(s string) ([protocol.MACLength]byte, error) {
	var mac [protocol.MACLength]byte
	clean := strings.NewReplacer(":", "", "-", "").Replace(s)
	if len(clean) != protocol.MACLength*2 {
		return mac, fmt.Errorf("invalid MAC %q: want %d hex bytes", s, protocol.MACLength)
	}
	for i := 0; i < protocol.MACLength; i++ {
		b, err := strconv.ParseUint(clean[i*2:i*2+2], 16, 8)
		if err != nil {
			return mac, fmt.Errorf("invalid MAC %q: %w", s, err)
		}
		mac[i] = byte(b)
	}
	return mac, nil
}

// deviceLabel renders a device with its nickname when one is known.
func deviceLabel(reg *config.Registry, d protocol.Device) string {
	label := d.String()
	if reg != nil && d.MACAddress != "" {
		if nick := reg.DisplayName(d.MACAddress, ""); nick != "" {
			label += fmt.Sprintf(" %q", nick)
		}
	}
	return label
}

// printDevices renders a device list with an index column.
func printDevices(reg *config.Registry, devices []protocol.Device) {
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, deviceLabel(reg, d))
		if d.MACAddress != "" {
			fmt.Printf("   MAC: %s\n", d.MACAddress)
		}
		if d.State != nil {
			fmt.Printf("   State: %s\n", formatState(d))
		}
	}
}

func formatState(d protocol.Device) string {
	s := d.State
	if s == nil {
		return "-"
	}
	onOff := "off"
	if s.On {
		onOff = "on"
	}
	switch d.Category {
	case protocol.CategoryLight:
		return fmt.Sprintf("%s brightness=%d temperature=%d", onOff, s.Brightness, s.Temperature)
	case protocol.CategoryFan:
		return fmt.Sprintf("%s speed=%d", onOff, s.Speed)
	case protocol.CategoryPlug:
		return onOff
	default:
		if len(s.Raw) > 0 {
			return fmt.Sprintf("raw %x", s.Raw)
		}
		return onOff
	}
}
