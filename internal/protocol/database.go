package protocol

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Registration database codecs. The database holds every device paired
// with the hub, as opposed to discovery which only sees devices that
// currently answer on the radio.

// MACLength is the size of a device hardware address (EUI-64)
const MACLength = 8

// BuildDBListDeviceRequest frames the plain registration listing
// (address and type only).
func BuildDBListDeviceRequest() []byte {
	return EncodeFrame(CmdDBListDevice, nil, 0, true)
}

// BuildDBListDeviceFullRequest frames the full registration listing,
// which additionally carries each device's hardware address.
func BuildDBListDeviceFullRequest() []byte {
	return EncodeFrame(CmdDBListDeviceFull, nil, 0, true)
}

// ParseDBListDeviceFullResponse decodes the 14-byte-per-entry full
// listing. As with every list payload, a short payload ends iteration
// early instead of failing.
func ParseDBListDeviceFullResponse(p *Packet) ([]Device, error) {
	if err := expectCommand(p, CmdDBListDeviceFull); err != nil {
		return nil, err
	}

	const entrySize = 6 + MACLength // addr(2) + typeID(4) + mac(8)
	devices := make([]Device, 0, p.ListLen)
	off := 0
	for i := 0; i < int(p.ListLen); i++ {
		if off+entrySize > len(p.Data) {
			break
		}
		addr := binary.BigEndian.Uint16(p.Data[off : off+2])
		typeID := binary.BigEndian.Uint32(p.Data[off+2 : off+6])
		dev := newDevice(addr, typeID)
		dev.MACAddress = formatMAC(p.Data[off+6 : off+entrySize])
		devices = append(devices, dev)
		off += entrySize
	}
	return devices, nil
}

// BuildDBAddDeviceRequest frames a registration of a device by hardware
// address.
func BuildDBAddDeviceRequest(mac [MACLength]byte) []byte {
	return EncodeFrame(CmdDBAddDevice, mac[:], 1, true)
}

// ParseDBAddDeviceResponse extracts the short address the hub assigned
// to the newly registered device.
func ParseDBAddDeviceResponse(p *Packet) (uint16, error) {
	if err := expectCommand(p, CmdDBAddDevice); err != nil {
		return 0, err
	}
	if len(p.Data) < 2 {
		return 0, fmt.Errorf("add device payload is %d bytes: %w",
			len(p.Data), ErrIncomplete)
	}
	return binary.BigEndian.Uint16(p.Data[:2]), nil
}

// BuildDBRemoveDeviceRequest frames a deregistration by short address.
func BuildDBRemoveDeviceRequest(addr uint16) []byte {
	data := binary.BigEndian.AppendUint16(nil, addr)
	return EncodeFrame(CmdDBRemoveDevice, data, 1, true)
}

func formatMAC(mac []byte) string {
	out := make([]byte, 0, len(mac)*3)
	for i, b := range mac {
		if i > 0 {
			out = append(out, ':')
		}
		out = append(out, hex.EncodeToString([]byte{b})...)
	}
	return string(out)
}
