package server

import (
	"time"

	"github.com/muurk/hublink/internal/protocol"
)

// StatusMessage is one status snapshot pushed to every subscriber.
type StatusMessage struct {
	Time    time.Time      `json:"time"`
	HubID   string         `json:"hub_id"`
	Devices []DeviceStatus `json:"devices"`
}

// DeviceStatus is the JSON shape of one device in a snapshot.
type DeviceStatus struct {
	Address     uint16 `json:"address"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Name        string `json:"name,omitempty"`
	On          bool   `json:"on"`
	Brightness  uint8  `json:"brightness,omitempty"`
	Temperature uint8  `json:"temperature,omitempty"`
	Speed       uint8  `json:"speed,omitempty"`
}

// NewStatusMessage converts a status poll result into the push format.
// nameOf resolves a display name for an address and may be nil.
func NewStatusMessage(hubID string, devices []protocol.Device, nameOf func(protocol.Device) string) StatusMessage {
	msg := StatusMessage{
		Time:    time.Now(),
		HubID:   hubID,
		Devices: make([]DeviceStatus, 0, len(devices)),
	}
	for _, d := range devices {
		ds := DeviceStatus{
			Address:  d.ShortAddress,
			Type:     d.TypeName,
			Category: d.Category.String(),
		}
		if nameOf != nil {
			ds.Name = nameOf(d)
		}
		if d.State != nil {
			ds.On = d.State.On
			ds.Brightness = d.State.Brightness
			ds.Temperature = d.State.Temperature
			ds.Speed = d.State.Speed
		}
		msg.Devices = append(msg.Devices, ds)
	}
	return msg
}
