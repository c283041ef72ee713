package bridge

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/hub"
	"github.com/muurk/hublink/internal/logging"
	"github.com/muurk/hublink/internal/mqtt"
	"github.com/muurk/hublink/internal/protocol"
	"github.com/muurk/hublink/internal/server"
)

// Options configures a bridge run. MQTT and ListenAddr are both
// optional; a bridge with neither still polls and logs, which is useful
// for soak testing a hub.
type Options struct {
	Hub          hub.Config
	PollInterval time.Duration
	Registry     *config.Registry

	MQTT         *config.MQTTConfig
	MQTTPassword string

	ListenAddr string
}

// Bridge connects one hub to MQTT and to WebSocket subscribers. It owns
// the hub session for its lifetime: status polls fan out to both
// sides, inbound MQTT commands are translated to hub requests.
type Bridge struct {
	opts Options

	conn *hub.Connection
	mq   *mqtt.Client
	srv  *server.Server

	mu        sync.Mutex
	macByAddr map[uint16]string
}

// New creates a bridge. Nothing connects until Run.
func New(opts Options) *Bridge {
	if opts.PollInterval <= 0 {
		opts.PollInterval = hub.DefaultPollInterval
	}
	return &Bridge{
		opts:      opts,
		conn:      hub.New(opts.Hub),
		macByAddr: make(map[uint16]string),
	}
}

// Run connects everything and blocks until ctx is canceled. The hub
// session reconnects on its own; Run only returns on cancellation or on
// a startup failure.
func (b *Bridge) Run(ctx context.Context) error {
	if b.opts.ListenAddr != "" {
		b.srv = server.New(b.opts.ListenAddr)
		if err := b.srv.Start(); err != nil {
			return err
		}
	}

	if b.opts.MQTT != nil && b.opts.MQTT.Broker != "" {
		b.mq = mqtt.NewClient(b.opts.MQTT, b.opts.MQTTPassword)
		b.mq.SetCommandHandler(b.handleCommand)
		if err := b.mq.Connect(); err != nil {
			b.shutdownServer()
			return err
		}
	}

	b.conn.SetConnectedHandler(b.onConnected)
	b.conn.SetDisconnectedHandler(b.onDisconnected)
	b.conn.SetDeviceStatusHandler(b.onStatus)
	b.conn.StartPolling(b.opts.PollInterval)

	if err := b.conn.Connect(ctx); err != nil {
		// A dead hub at startup is not fatal for a daemon: log it and
		// let the reconnect cycle keep trying.
		logging.Warn("Initial hub connection failed, will keep retrying",
			zap.Error(err),
		)
		go b.retryInitialConnect(ctx)
	}

	<-ctx.Done()

	_ = b.conn.Close()
	if b.mq != nil {
		b.mq.Close()
	}
	b.shutdownServer()
	return nil
}

func (b *Bridge) shutdownServer() {
	if b.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = b.srv.Shutdown(ctx)
}

// retryInitialConnect keeps dialing until the first session comes up.
// After that the connection's own reconnect cycle takes over.
func (b *Bridge) retryInitialConnect(ctx context.Context) {
	delay := b.opts.Hub.ReconnectDelay
	if delay <= 0 {
		delay = hub.DefaultReconnectDelay
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		// The connection runs its own reconnect cycle once a handshake
		// has been attempted; stand down as soon as either path wins.
		if b.conn.State() == hub.StateReady {
			return
		}
		if err := b.conn.Connect(ctx); err == nil {
			return
		}
	}
}

func (b *Bridge) onConnected() {
	logging.Info("Bridge attached to hub", zap.String("hub_id", b.conn.HubID()))
	if b.mq != nil {
		_ = b.mq.PublishEvent("hub", "connected", b.conn.HubID())
	}
	go b.refreshDeviceTable()
}

func (b *Bridge) onDisconnected(err error) {
	if b.mq != nil {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		_ = b.mq.PublishEvent("hub", "disconnected", msg)
	}
}

// refreshDeviceTable rebuilds the address-to-MAC map used for nickname
// resolution. Runs after every (re)connect; short addresses can change
// when devices rejoin the mesh.
func (b *Bridge) refreshDeviceTable() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	devices, err := b.conn.ListDevicesFull(ctx)
	if err != nil {
		logging.Warn("Failed to refresh device table", zap.Error(err))
		return
	}

	table := make(map[uint16]string, len(devices))
	for _, d := range devices {
		table[d.ShortAddress] = d.MACAddress
	}

	b.mu.Lock()
	b.macByAddr = table
	b.mu.Unlock()

	logging.Debug("Device table refreshed", zap.Int("devices", len(devices)))
}

// nameOf resolves a device's display name through the config registry,
// keyed by the MAC learned from the full database listing.
func (b *Bridge) nameOf(d protocol.Device) string {
	if b.opts.Registry == nil {
		return ""
	}
	b.mu.Lock()
	mac := b.macByAddr[d.ShortAddress]
	b.mu.Unlock()
	if mac == "" {
		return ""
	}
	return b.opts.Registry.DisplayName(mac, "")
}

// onStatus fans one poll result out to both push surfaces.
func (b *Bridge) onStatus(devices []protocol.Device) {
	if b.srv != nil {
		b.srv.Broadcast(server.NewStatusMessage(b.conn.HubID(), devices, b.nameOf))
	}
	if b.mq != nil {
		if err := b.mq.PublishStatus(devices, b.nameOf); err != nil {
			logging.Warn("Failed to publish status to MQTT", zap.Error(err))
		}
	}
}

// handleCommand translates one MQTT set-command into hub requests.
// Properties are applied independently; a partial failure leaves the
// rest applied, matching what a retrying client would do anyway.
func (b *Bridge) handleCommand(addr uint16, cmd mqtt.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cmd.On != nil {
		if err := b.conn.SetPower(ctx, *cmd.On, addr); err != nil {
			logging.Warn("Power command failed",
				zap.String("address", mqtt.FormatAddress(addr)),
				zap.Error(err),
			)
		}
	}
	if cmd.Brightness != nil {
		if err := b.conn.SetBrightness(ctx, *cmd.Brightness, addr); err != nil {
			logging.Warn("Brightness command failed",
				zap.String("address", mqtt.FormatAddress(addr)),
				zap.Error(err),
			)
		}
	}
	if cmd.Temperature != nil {
		if err := b.conn.SetColorTemperature(ctx, *cmd.Temperature, addr); err != nil {
			logging.Warn("Color temperature command failed",
				zap.String("address", mqtt.FormatAddress(addr)),
				zap.Error(err),
			)
		}
	}
	if cmd.Speed != nil {
		if err := b.conn.SetFanSpeed(ctx, *cmd.Speed, addr); err != nil {
			logging.Warn("Fan speed command failed",
				zap.String("address", mqtt.FormatAddress(addr)),
				zap.Error(err),
			)
		}
	}
}
