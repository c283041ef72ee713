// Hublink-bridge is a daemon that connects a hub to MQTT and to
// WebSocket subscribers.
//
// It keeps one hub session alive (reconnecting forever on failure),
// polls device status on an interval, publishes per-device state to
// MQTT and to any WebSocket subscribers, and translates inbound MQTT
// command messages into hub requests.
//
// The MQTT broker password is read from the HUBLINK_MQTT_PASSWORD
// environment variable; it is never stored in the config file.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/hublink/internal/bridge"
	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/hub"
	"github.com/muurk/hublink/internal/logging"
	"github.com/muurk/hublink/internal/version"
)

var (
	flagHost   string
	flagPort   int
	flagListen string
	flagBroker string
	flagPoll   int
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
	Use:   "hublink-bridge",
	Short: "Hub to MQTT and WebSocket bridge daemon",
	Long: `Run a long-lived bridge between one hub and the rest of the house.

Device status polls are published to MQTT (retained, per device) and
broadcast to WebSocket subscribers; MQTT command messages are applied
to the hub. Connection settings come from the hublink config file and
can be overridden with flags.`,
	Example: `  hublink-bridge --broker tcp://mqtt.local:1883
  hublink-bridge --host 192.168.1.50 --listen :8090 --poll 30`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBridge,
}

func init() {
	rootCmd.Flags().StringVar(&flagHost, "host", "", "Hub IP address (default from config)")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "Hub control port (default 1234)")
	rootCmd.Flags().StringVar(&flagListen, "listen", "", "WebSocket listen address, e.g. :8090 (default from config)")
	rootCmd.Flags().StringVar(&flagBroker, "broker", "", "MQTT broker URL, e.g. tcp://mqtt.local:1883 (default from config)")
	rootCmd.Flags().IntVar(&flagPoll, "poll", 0, "Status poll interval in seconds (default from config)")
}

func runBridge(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	opts, err := bridgeOptions(reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return bridge.New(opts).Run(ctx)
}

// bridgeOptions assembles the run options from the config file with
// flag overrides on top.
func bridgeOptions(reg *config.Registry) (bridge.Options, error) {
	opts := bridge.Options{
		Registry:     reg,
		MQTTPassword: os.Getenv("HUBLINK_MQTT_PASSWORD"),
	}

	hubCfg := hub.Config{Host: flagHost, Port: flagPort}
	if reg.Hub != nil {
		if hubCfg.Host == "" {
			hubCfg.Host = reg.Hub.Host
		}
		if hubCfg.Port == 0 {
			hubCfg.Port = reg.Hub.Port
		}
		hubCfg.ConnectTimeout = time.Duration(reg.Hub.ConnectTimeout) * time.Second
		hubCfg.CommandTimeout = time.Duration(reg.Hub.CommandTimeout) * time.Second
		hubCfg.KeepAliveInterval = time.Duration(reg.Hub.KeepAliveInterval) * time.Second
		hubCfg.ReconnectDelay = time.Duration(reg.Hub.ReconnectDelay) * time.Second
		if reg.Hub.PollInterval > 0 {
			opts.PollInterval = time.Duration(reg.Hub.PollInterval) * time.Second
		}
	}
	if hubCfg.Host == "" {
		return opts, fmt.Errorf("no hub configured: set hub.host in the config file or pass --host")
	}
	opts.Hub = hubCfg

	if flagPoll > 0 {
		opts.PollInterval = time.Duration(flagPoll) * time.Second
	}

	if reg.Bridge != nil {
		opts.ListenAddr = reg.Bridge.ListenAddr
		if reg.Bridge.MQTT != nil {
			mq := *reg.Bridge.MQTT
			opts.MQTT = &mq
		}
	}
	if flagListen != "" {
		opts.ListenAddr = flagListen
	}
	if flagBroker != "" {
		if opts.MQTT == nil {
			opts.MQTT = &config.MQTTConfig{}
		}
		opts.MQTT.Broker = flagBroker
	}

	return opts, nil
}
