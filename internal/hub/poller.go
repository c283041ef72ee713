package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/hublink/internal/logging"
)

// DefaultPollInterval is used when StartPolling is given a
// non-positive interval.
const DefaultPollInterval = 60 * time.Second

// StartPolling begins periodic broadcast status queries; each result is
// delivered through the device-status handler. Polling survives
// reconnects: the loop stops with the session and restarts once a new
// one reaches Ready. Calling StartPolling before Connect is fine, the
// loop starts with the first session.
func (c *Connection) StartPolling(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	c.mu.Lock()
	c.pollRequested = true
	c.pollInterval = interval
	c.mu.Unlock()
	c.startPollLoop()
}

// StopPolling cancels periodic status queries.
func (c *Connection) StopPolling() {
	c.mu.Lock()
	c.pollRequested = false
	if c.pollQuit != nil {
		close(c.pollQuit)
		c.pollQuit = nil
	}
	c.mu.Unlock()
}

// startPollLoop spawns the poll goroutine if polling is wanted, the
// session is Ready and no loop is already running.
func (c *Connection) startPollLoop() {
	c.mu.Lock()
	if !c.pollRequested || c.pollQuit != nil || c.state != StateReady {
		c.mu.Unlock()
		return
	}
	quit := make(chan struct{})
	c.pollQuit = quit
	interval := c.pollInterval
	c.mu.Unlock()

	go c.pollLoop(interval, quit)
}

func (c *Connection) pollLoop(interval time.Duration, quit chan struct{}) {
	c.pollOnce()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-quit:
			return
		case <-t.C:
			c.pollOnce()
		}
	}
}

// pollOnce runs one broadcast status query. Failures are logged and the
// loop carries on; the next tick gets a fresh chance.
func (c *Connection) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.CommandTimeout)
	devices, err := c.Status(ctx)
	cancel()
	if err != nil {
		logging.Warn("Status poll failed", zap.Error(err))
		return
	}
	c.mu.Lock()
	cb := c.onDeviceStatus
	c.mu.Unlock()
	if cb != nil {
		cb(devices)
	}
}
