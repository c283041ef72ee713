package protocol

import (
	"encoding/binary"
	"fmt"
)

// Device describes one device known to the hub. TypeName and Category are
// derived from the static type table. MACAddress is only populated by the
// full database listing; State only by status responses.
type Device struct {
	ShortAddress uint16
	TypeID       uint32
	TypeName     string
	Category     Category
	MACAddress   string
	State        *DeviceState
}

// DeviceState holds the live state fields a status response carries.
// Which fields are meaningful depends on the category: lights use
// On/Brightness/Temperature, fans On/Speed, plugs On. For every other
// category the state bytes are kept opaque in Raw.
type DeviceState struct {
	On          bool
	Brightness  uint8
	Temperature uint8
	Speed       uint8
	Raw         []byte
}

// String returns a short human-readable device description
func (d Device) String() string {
	return fmt.Sprintf("0x%04X %s (%s)", d.ShortAddress, d.TypeName, d.Category)
}

func newDevice(addr uint16, typeID uint32) Device {
	return Device{
		ShortAddress: addr,
		TypeID:       typeID,
		TypeName:     TypeName(typeID),
		Category:     CategoryOf(typeID),
	}
}

// appendAddrs writes the 16-bit short addresses after any leading
// parameter bytes; every set-command payload shares this shape.
func appendAddrs(data []byte, addrs []uint16) []byte {
	for _, a := range addrs {
		data = binary.BigEndian.AppendUint16(data, a)
	}
	return data
}

// BuildDeviceSwitchRequest frames a power command for one or more
// devices or groups. Payload: on/off byte followed by listLen addresses.
func BuildDeviceSwitchRequest(on bool, addrs []uint16) []byte {
	data := make([]byte, 1, 1+2*len(addrs))
	if on {
		data[0] = 0x01
	}
	data = appendAddrs(data, addrs)
	return EncodeFrame(CmdDeviceSwitch, data, uint16(len(addrs)), true)
}

// BuildLightDimRequest frames a brightness command for a single light.
func BuildLightDimRequest(level uint8, addr uint16) []byte {
	data := appendAddrs([]byte{level}, []uint16{addr})
	return EncodeFrame(CmdLightDim, data, 1, true)
}

// BuildLightDimBatchRequest frames one brightness level for many lights.
func BuildLightDimBatchRequest(level uint8, addrs []uint16) []byte {
	data := appendAddrs([]byte{level}, addrs)
	return EncodeFrame(CmdLightDimBatch, data, uint16(len(addrs)), true)
}

// BuildLightTemperatureRequest frames a color temperature command
// (mireds) for a single light.
func BuildLightTemperatureRequest(mireds uint16, addr uint16) []byte {
	data := binary.BigEndian.AppendUint16(nil, mireds)
	data = appendAddrs(data, []uint16{addr})
	return EncodeFrame(CmdLightTemperature, data, 1, true)
}

// BuildLightTemperatureBatchRequest frames one color temperature for
// many lights.
func BuildLightTemperatureBatchRequest(mireds uint16, addrs []uint16) []byte {
	data := binary.BigEndian.AppendUint16(nil, mireds)
	data = appendAddrs(data, addrs)
	return EncodeFrame(CmdLightTemperatureBatch, data, uint16(len(addrs)), true)
}

// BuildFanControlRequest frames a fan speed command. Speed 0 stops the
// fan; the range above that is device-specific.
func BuildFanControlRequest(speed uint8, addr uint16) []byte {
	data := appendAddrs([]byte{speed}, []uint16{addr})
	return EncodeFrame(CmdFanControl, data, 1, true)
}

// BuildDeviceDiscoveryRequest frames a scan for devices that currently
// answer on the radio.
func BuildDeviceDiscoveryRequest() []byte {
	return EncodeFrame(CmdDeviceDiscovery, nil, 0, true)
}

// BuildDeviceStatusRequest frames a status query. With no addresses the
// request targets the broadcast address, i.e. every device.
func BuildDeviceStatusRequest(addrs ...uint16) []byte {
	if len(addrs) == 0 {
		addrs = []uint16{BroadcastAddress}
	}
	data := appendAddrs(make([]byte, 0, 2*len(addrs)), addrs)
	return EncodeFrame(CmdDeviceStatus, data, uint16(len(addrs)), true)
}

// ParseAckResponse validates a single-status-byte acknowledgement, the
// response shape shared by every set-style command. A non-zero status
// byte fails with ErrCommandRejected.
func ParseAckResponse(p *Packet, want CommandID) error {
	if err := expectCommand(p, want); err != nil {
		return err
	}
	if len(p.Data) >= 1 && p.Data[0] != 0 {
		return fmt.Errorf("%s status 0x%02X: %w", p.Cmd, p.Data[0], ErrCommandRejected)
	}
	return nil
}

// ParseDeviceListResponse decodes the 6-byte-per-entry device list shared
// by discovery and the plain database listing. Iteration is bounded by
// both ListLen and the payload: a short payload ends the list early
// rather than failing, so callers must not assume an exact count.
func ParseDeviceListResponse(p *Packet, want CommandID) ([]Device, error) {
	if err := expectCommand(p, want); err != nil {
		return nil, err
	}

	const entrySize = 6 // addr(2) + typeID(4)
	devices := make([]Device, 0, p.ListLen)
	off := 0
	for i := 0; i < int(p.ListLen); i++ {
		if off+entrySize > len(p.Data) {
			break
		}
		addr := binary.BigEndian.Uint16(p.Data[off : off+2])
		typeID := binary.BigEndian.Uint32(p.Data[off+2 : off+6])
		devices = append(devices, newDevice(addr, typeID))
		off += entrySize
	}
	return devices, nil
}

// ParseDeviceStatusResponse decodes a status list. Each entry carries its
// own state length byte; the state bytes are demultiplexed by the
// device's category (3 bytes for lights, 2 for fans, 1 for plugs,
// opaque otherwise).
func ParseDeviceStatusResponse(p *Packet) ([]Device, error) {
	if err := expectCommand(p, CmdDeviceStatus); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, p.ListLen)
	off := 0
	for i := 0; i < int(p.ListLen); i++ {
		// addr(2) + typeID(4) + stateLen(1)
		if off+7 > len(p.Data) {
			break
		}
		addr := binary.BigEndian.Uint16(p.Data[off : off+2])
		typeID := binary.BigEndian.Uint32(p.Data[off+2 : off+6])
		stateLen := int(p.Data[off+6])
		off += 7

		if off+stateLen > len(p.Data) {
			break
		}
		dev := newDevice(addr, typeID)
		dev.State = decodeDeviceState(dev.Category, p.Data[off:off+stateLen])
		off += stateLen

		devices = append(devices, dev)
	}
	return devices, nil
}

func decodeDeviceState(cat Category, state []byte) *DeviceState {
	s := &DeviceState{}
	switch {
	case cat == CategoryLight && len(state) >= 3:
		s.On = state[0] != 0
		s.Brightness = state[1]
		s.Temperature = state[2]
	case cat == CategoryFan && len(state) >= 2:
		s.On = state[0] != 0
		s.Speed = state[1]
	case cat == CategoryPlug && len(state) >= 1:
		s.On = state[0] != 0
	default:
		s.Raw = append([]byte(nil), state...)
	}
	return s
}
