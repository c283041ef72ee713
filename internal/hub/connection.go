package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/hublink/internal/cipher"
	"github.com/muurk/hublink/internal/logging"
	"github.com/muurk/hublink/internal/protocol"
)

// Config holds the connection parameters. Zero values fall back to the
// defaults below.
type Config struct {
	Host string
	Port int

	// ConnectTimeout bounds the TCP dial
	ConnectTimeout time.Duration
	// HandshakeTimeout bounds the cleartext gateway-identifier
	// exchange; it is independent of (and shorter than) the dial
	HandshakeTimeout time.Duration
	// CommandTimeout bounds each application command
	CommandTimeout time.Duration
	// KeepAliveInterval is the period of the background ping
	KeepAliveInterval time.Duration
	// ReconnectDelay is the fixed delay between reconnect attempts
	ReconnectDelay time.Duration
	// IdleTimeout is the read deadline after which an opportunistic
	// ping probes an otherwise silent socket
	IdleTimeout time.Duration
}

// Defaults
const (
	DefaultConnectTimeout    = 10 * time.Second
	DefaultHandshakeTimeout  = 3 * time.Second
	DefaultCommandTimeout    = 5 * time.Second
	DefaultKeepAliveInterval = 30 * time.Second
	DefaultReconnectDelay    = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
)

func (cfg Config) withDefaults() Config {
	if cfg.Port == 0 {
		cfg.Port = protocol.DefaultPort
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
	if cfg.KeepAliveInterval <= 0 {
		cfg.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return cfg
}

type exchangeResult struct {
	data []byte
	err  error
}

// pendingCommand is the single outstanding request slot. It is created
// when a request is written and cleared when the response arrives, the
// timer fires, or the session tears down; whichever comes first wins
// delivery (the slot is cleared under the mutex before sending).
type pendingCommand struct {
	ch    chan exchangeResult // buffered, capacity 1
	timer *time.Timer
}

// Connection manages one logical session against one hub address. It
// exclusively owns the socket, the receive buffer and the session key.
//
// The wire protocol has no correlation IDs: responses are matched to
// the single pending request by arrival order, so at most one command
// may be outstanding at a time and a second concurrent call fails with
// ErrCommandBusy without touching the socket.
//
// Response reassembly is deliberately simple: bytes accumulate in the
// receive buffer and, as soon as any have arrived while a command is
// pending, the whole buffer is decrypted as one unit. A response split
// across many small reads after the first byte would defeat this; in
// practice hub responses arrive as a single TCP segment. Known
// fragility, preserved from the protocol's observed behavior.
type Connection struct {
	cfg Config

	mu      sync.Mutex
	state   State
	conn    net.Conn
	key     []byte
	hubID   []byte
	pending *pendingCommand
	rxBuf   []byte

	// gen identifies the current socket; stale read loops and timers
	// compare against it and stand down
	gen          int
	sessionQuit  chan struct{}
	closed       bool
	reconnecting bool

	pollRequested bool
	pollInterval  time.Duration
	pollQuit      chan struct{}

	done chan struct{}

	onConnected    func()
	onDisconnected func(error)
	onError        func(error)
	onDeviceStatus func([]protocol.Device)
}

// New creates a connection for the given hub address. Nothing is dialed
// until Connect.
func New(cfg Config) *Connection {
	return &Connection{
		cfg:  cfg.withDefaults(),
		done: make(chan struct{}),
	}
}

// SetConnectedHandler registers the callback fired when a session
// reaches Ready. Set handlers before Connect.
func (c *Connection) SetConnectedHandler(fn func()) {
	c.mu.Lock()
	c.onConnected = fn
	c.mu.Unlock()
}

// SetDisconnectedHandler registers the callback fired when the session
// is lost to a transport failure.
func (c *Connection) SetDisconnectedHandler(fn func(error)) {
	c.mu.Lock()
	c.onDisconnected = fn
	c.mu.Unlock()
}

// SetErrorHandler registers the callback fired for transport-level
// errors.
func (c *Connection) SetErrorHandler(fn func(error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

// SetDeviceStatusHandler registers the callback that receives each
// status poll result.
func (c *Connection) SetDeviceStatusHandler(fn func([]protocol.Device)) {
	c.mu.Lock()
	c.onDeviceStatus = fn
	c.mu.Unlock()
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HubID returns the hub identifier learned during the handshake, in
// colon-delimited form, or "" before the first successful handshake.
func (c *Connection) HubID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hubID == nil {
		return ""
	}
	return cipher.FormatIdentifier(c.hubID)
}

func (c *Connection) addr() string {
	return net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
}

// Connect dials the hub and performs the handshake: the gateway
// identifier is fetched in the clear under its own timeout and the
// session key derived from it. Either failure closes the socket and
// fails the whole operation. On success the state becomes Ready and the
// connected notification fires.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateDisconnected && c.state != StateReconnecting {
		c.mu.Unlock()
		return fmt.Errorf("connect while %s", c.state)
	}
	c.state = StateConnecting
	c.mu.Unlock()

	addr := c.addr()
	d := net.Dialer{Timeout: c.cfg.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.settleFailedConnect()
		return transportErr("connect", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.key = nil
	c.hubID = nil
	c.rxBuf = nil
	c.gen++
	gen := c.gen
	c.sessionQuit = make(chan struct{})
	quit := c.sessionQuit
	c.state = StateHandshaking
	c.mu.Unlock()

	logging.LogConnection(addr, "connected")
	go c.readLoop(conn, gen)

	raw, err := c.exchange(ctx, protocol.BuildGatewayIDRequest(), c.cfg.HandshakeTimeout, true)
	if err != nil {
		err = fmt.Errorf("handshake: %w", err)
		c.teardown(gen, err)
		return err
	}
	hubID, err := parseHandshake(raw)
	if err != nil {
		err = fmt.Errorf("handshake: %w", err)
		c.teardown(gen, err)
		return err
	}
	key, err := cipher.DeriveKey(hubID)
	if err != nil {
		err = fmt.Errorf("handshake: %w", err)
		c.teardown(gen, err)
		return err
	}

	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		return ErrClosed
	}
	c.hubID = hubID
	c.key = key
	c.state = StateReady
	// The reconnect cycle ends here, not when reconnectLoop returns:
	// a teardown racing the connected callback must see the flag clear
	// so it starts a fresh cycle instead of assuming this one will
	// retry.
	c.reconnecting = false
	cb := c.onConnected
	c.mu.Unlock()

	logging.Info("Hub session ready",
		zap.String("remote_addr", addr),
		zap.String("hub_id", cipher.FormatIdentifier(hubID)),
	)

	go c.keepAliveLoop(quit)
	if cb != nil {
		cb()
	}
	c.startPollLoop()
	return nil
}

func parseHandshake(raw []byte) ([]byte, error) {
	pkt, err := protocol.DecodeFrame(raw)
	if err != nil {
		return nil, err
	}
	return protocol.ParseGatewayIDResponse(pkt)
}

// settleFailedConnect restores the pre-dial state after a failed
// attempt, keeping Reconnecting visible while the retry cycle runs.
func (c *Connection) settleFailedConnect() {
	c.mu.Lock()
	if c.reconnecting && !c.closed {
		c.state = StateReconnecting
	} else {
		c.state = StateDisconnected
	}
	c.mu.Unlock()
}

// exchange runs the single-outstanding-request pipeline: encrypt (once
// a key exists), arm the timeout, write, and wait for the decrypted
// response. handshake selects the pre-key cleartext path.
func (c *Connection) exchange(ctx context.Context, frame []byte, timeout time.Duration, handshake bool) ([]byte, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	wantState := StateReady
	if handshake {
		wantState = StateHandshaking
	}
	if c.state != wantState {
		c.mu.Unlock()
		return nil, fmt.Errorf("state %s: %w", c.state, ErrNotConnected)
	}
	if c.pending != nil {
		// Second in-flight request: reject without touching the socket
		c.mu.Unlock()
		return nil, ErrCommandBusy
	}

	conn := c.conn
	gen := c.gen
	key := c.key
	wire := frame
	if key != nil {
		var err error
		wire, err = cipher.Encrypt(frame, key)
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}

	p := &pendingCommand{ch: make(chan exchangeResult, 1)}
	p.timer = time.AfterFunc(timeout, func() {
		c.failPending(p, ErrCommandTimeout)
	})
	c.pending = p
	c.rxBuf = nil
	c.mu.Unlock()

	logging.LogFrame("sent", key != nil, wire)
	if _, err := conn.Write(wire); err != nil {
		// A failed write is a dead socket, not just a failed command:
		// fail the caller and tear the session down so the reconnect
		// cycle starts now rather than when the read loop notices.
		werr := transportErr("write", err)
		c.failPending(p, werr)
		c.teardown(gen, werr)
	}

	select {
	case res := <-p.ch:
		p.timer.Stop()
		return res.data, res.err
	case <-ctx.Done():
		c.failPending(p, ctx.Err())
		res := <-p.ch
		return res.data, res.err
	}
}

// failPending clears the pending slot and delivers err, unless p has
// already been settled by someone else.
func (c *Connection) failPending(p *pendingCommand, err error) {
	c.mu.Lock()
	if c.pending != p {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.rxBuf = nil
	c.mu.Unlock()

	p.timer.Stop()
	p.ch <- exchangeResult{err: err}
}

// readLoop owns the socket's read side for one session generation.
func (c *Connection) readLoop(conn net.Conn, gen int) {
	buf := make([]byte, 4096)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(c.cfg.IdleTimeout)); err != nil {
			c.teardown(gen, transportErr("deadline", err))
			return
		}
		n, err := conn.Read(buf)
		if n > 0 {
			c.ingest(gen, buf[:n])
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				// Idle socket: probe it so a dead peer is noticed
				// before the next real command
				go c.idlePing(gen)
				continue
			}
			if errors.Is(err, io.EOF) {
				logging.LogConnection(c.addr(), "closed_by_hub")
			}
			c.teardown(gen, transportErr("read", err))
			return
		}
	}
}

// ingest appends received bytes to the receive buffer and, if a command
// is pending, hands the whole buffer off as the response. Unattributed
// bytes (a response that lost its timeout race, or unsolicited traffic)
// are discarded and the buffer reset.
func (c *Connection) ingest(gen int, b []byte) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.rxBuf = append(c.rxBuf, b...)
	p := c.pending
	if p == nil {
		n := len(c.rxBuf)
		c.rxBuf = nil
		c.mu.Unlock()
		logging.Debug("Discarding unattributed bytes", zap.Int("length", n))
		return
	}
	whole := c.rxBuf
	c.rxBuf = nil
	c.pending = nil
	key := c.key
	c.mu.Unlock()

	p.timer.Stop()
	logging.LogFrame("received", key != nil, whole)

	if key == nil {
		p.ch <- exchangeResult{data: whole}
		return
	}
	pt, err := cipher.Decrypt(whole, key)
	if err != nil {
		p.ch <- exchangeResult{err: err}
		return
	}
	p.ch <- exchangeResult{data: pt}
}

// teardown destroys the socket for generation gen and, unless the
// connection was explicitly closed, schedules the reconnect cycle. A
// re-entrant call for the same (already torn down) generation is a
// no-op, as is a call for a stale generation.
func (c *Connection) teardown(gen int, cause error) {
	c.mu.Lock()
	if c.gen != gen || c.conn == nil {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.key = nil
	c.rxBuf = nil

	if c.sessionQuit != nil {
		close(c.sessionQuit)
		c.sessionQuit = nil
	}
	// Stop polling before destroying the socket; it restarts only
	// after a fresh Ready state.
	if c.pollQuit != nil {
		close(c.pollQuit)
		c.pollQuit = nil
	}

	p := c.pending
	c.pending = nil

	startReconnect := false
	if c.closed {
		c.state = StateDisconnected
	} else {
		c.state = StateReconnecting
		if !c.reconnecting {
			c.reconnecting = true
			startReconnect = true
		}
	}
	onDisc := c.onDisconnected
	onErr := c.onError
	wasClosed := c.closed
	c.mu.Unlock()

	_ = conn.Close()

	if p != nil {
		p.timer.Stop()
		err := cause
		if err == nil {
			err = ErrClosed
		}
		p.ch <- exchangeResult{err: err}
	}

	if !wasClosed {
		logging.LogConnection(c.addr(), "disconnected")
		if cause != nil {
			if onErr != nil {
				onErr(cause)
			}
		}
		if onDisc != nil {
			onDisc(cause)
		}
	}
	if startReconnect {
		go c.reconnectLoop()
	}
}

// reconnectLoop retries forever with a fixed delay until a connect
// succeeds or the connection is closed. There is no backoff growth and
// no retry cap: a transient failure can never become permanent.
func (c *Connection) reconnectLoop() {
	for {
		select {
		case <-c.done:
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}

		// A successful Connect cleared c.reconnecting itself; clearing
		// it here instead would race a teardown that already started
		// the next cycle.
		err := c.Connect(context.Background())
		if err == nil {
			return
		}
		if errors.Is(err, ErrClosed) {
			return
		}
		logging.Warn("Reconnect attempt failed",
			zap.String("remote_addr", c.addr()),
			zap.Error(err),
		)
	}
}

// keepAliveLoop pings the hub on a fixed interval for the lifetime of
// one session. Failures are logged and swallowed: the keep-alive's only
// job is making a dead socket fail fast.
func (c *Connection) keepAliveLoop(quit chan struct{}) {
	t := time.NewTicker(c.cfg.KeepAliveInterval)
	defer t.Stop()
	for {
		select {
		case <-quit:
			return
		case <-t.C:
			c.backgroundPing("keep-alive")
		}
	}
}

func (c *Connection) idlePing(gen int) {
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}
	c.backgroundPing("idle probe")
}

func (c *Connection) backgroundPing(reason string) {
	c.mu.Lock()
	skip := c.state != StateReady || c.pending != nil
	c.mu.Unlock()
	if skip {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.CommandTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil && !errors.Is(err, ErrCommandBusy) {
		logging.Debug("Background ping failed",
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

// Close cancels every timer, destroys the socket and resets the state.
// The connection will not reconnect afterwards. Idempotent.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.pollRequested = false
	close(c.done)
	gen := c.gen
	c.mu.Unlock()

	c.teardown(gen, nil)

	c.mu.Lock()
	c.state = StateDisconnected
	c.reconnecting = false
	c.hubID = nil
	c.mu.Unlock()

	return nil
}

// command sends one encrypted request and decodes the response frame.
func (c *Connection) command(ctx context.Context, frame []byte) (*protocol.Packet, error) {
	raw, err := c.exchange(ctx, frame, c.cfg.CommandTimeout, false)
	if err != nil {
		return nil, err
	}
	return protocol.DecodeFrame(raw)
}
