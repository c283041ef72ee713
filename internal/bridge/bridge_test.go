package bridge

import (
	"testing"
	"time"

	"github.com/muurk/hublink/internal/config"
	"github.com/muurk/hublink/internal/hub"
	"github.com/muurk/hublink/internal/protocol"
)

func TestNewDefaultsPollInterval(t *testing.T) {
	b := New(Options{Hub: hub.Config{Host: "127.0.0.1"}})
	if b.opts.PollInterval != hub.DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", b.opts.PollInterval, hub.DefaultPollInterval)
	}

	b = New(Options{Hub: hub.Config{Host: "127.0.0.1"}, PollInterval: 5 * time.Second})
	if b.opts.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", b.opts.PollInterval)
	}
}

func TestNameOf(t *testing.T) {
	reg := config.NewRegistry()
	reg.SetDeviceNickname("00:17:88:01:02:03:04:05", "Living Room Ceiling")

	b := New(Options{Hub: hub.Config{Host: "127.0.0.1"}, Registry: reg})
	b.macByAddr[0x0028] = "00:17:88:01:02:03:04:05"

	light := protocol.Device{ShortAddress: 0x0028}
	if got := b.nameOf(light); got != "Living Room Ceiling" {
		t.Errorf("nameOf = %q, want nickname", got)
	}

	// Unknown address resolves to nothing rather than a wrong name.
	if got := b.nameOf(protocol.Device{ShortAddress: 0x0099}); got != "" {
		t.Errorf("nameOf(unknown) = %q, want empty", got)
	}

	// No registry at all.
	b = New(Options{Hub: hub.Config{Host: "127.0.0.1"}})
	if got := b.nameOf(light); got != "" {
		t.Errorf("nameOf without registry = %q, want empty", got)
	}
}
