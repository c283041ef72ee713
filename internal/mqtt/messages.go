package mqtt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/hublink/internal/logging"
	"github.com/muurk/hublink/internal/protocol"
)

// StateMessage is the JSON published per device on every status poll.
type StateMessage struct {
	Timestamp   string `json:"timestamp"`
	Name        string `json:"name,omitempty"`
	Address     string `json:"address"` // "0x0028"
	Type        string `json:"type"`
	Category    string `json:"category"`
	On          bool   `json:"on"`
	Brightness  uint8  `json:"brightness,omitempty"`
	Temperature uint8  `json:"temperature,omitempty"`
	Speed       uint8  `json:"speed,omitempty"`
}

// Command is a parsed set-command payload. Fields are pointers so a
// command can change one property without touching the others.
type Command struct {
	On          *bool   `json:"on,omitempty"`
	Brightness  *uint8  `json:"brightness,omitempty"`
	Temperature *uint16 `json:"temperature,omitempty"` // mireds
	Speed       *uint8  `json:"speed,omitempty"`
}

// EventMessage represents a bridge event for MQTT.
type EventMessage struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// PublishStatus publishes one retained state message per device. nameOf
// resolves a display name for a device and may be nil.
func (c *Client) PublishStatus(devices []protocol.Device, nameOf func(protocol.Device) string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339)

	for _, d := range devices {
		msg := StateMessage{
			Timestamp: timestamp,
			Address:   FormatAddress(d.ShortAddress),
			Type:      d.TypeName,
			Category:  d.Category.String(),
		}
		if nameOf != nil {
			msg.Name = nameOf(d)
		}
		if d.State != nil {
			msg.On = d.State.On
			msg.Brightness = d.State.Brightness
			msg.Temperature = d.State.Temperature
			msg.Speed = d.State.Speed
		}

		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal state message: %w", err)
		}

		topic := fmt.Sprintf("%s/device/%s/state", c.topicPrefix, FormatAddress(d.ShortAddress))
		if err := c.publish(topic, payload, true); err != nil {
			logging.Warn("Failed to publish device state",
				zap.String("topic", topic),
				zap.Error(err),
			)
		}
	}
	return nil
}

// PublishEvent publishes a bridge event (connect, disconnect, error).
func (c *Client) PublishEvent(eventType, status, message string) error {
	msg := EventMessage{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Type:      eventType,
		Status:    status,
		Message:   message,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	topic := fmt.Sprintf("%s/event/%s", c.topicPrefix, eventType)
	return c.publish(topic, payload, false)
}

// FormatAddress renders a short address the way it appears in topics.
func FormatAddress(addr uint16) string {
	return fmt.Sprintf("0x%04x", addr)
}

// ParseCommandTopic extracts the device address from a command topic of
// the form "<prefix>/cmd/<address>/set".
func ParseCommandTopic(prefix, topic string) (uint16, error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/cmd/")
	if !ok {
		return 0, fmt.Errorf("topic %q does not match %s/cmd/+/set", topic, prefix)
	}
	addrText, ok := strings.CutSuffix(rest, "/set")
	if !ok || strings.Contains(addrText, "/") {
		return 0, fmt.Errorf("topic %q does not match %s/cmd/+/set", topic, prefix)
	}

	addrText = strings.TrimPrefix(addrText, "0x")
	addr, err := strconv.ParseUint(addrText, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid device address %q: %w", addrText, err)
	}
	return uint16(addr), nil
}

// ParseCommand decodes a set-command payload. JSON objects carry the
// full command shape; the bare strings "on" and "off" are accepted as a
// convenience for manual mosquitto_pub use.
func ParseCommand(payload []byte) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(string(payload))) {
	case "on":
		on := true
		return Command{On: &on}, nil
	case "off":
		on := false
		return Command{On: &on}, nil
	}

	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("failed to parse command payload: %w", err)
	}
	if cmd.On == nil && cmd.Brightness == nil && cmd.Temperature == nil && cmd.Speed == nil {
		return Command{}, fmt.Errorf("command payload sets no property")
	}
	return cmd, nil
}
