package protocol

import (
	"encoding/binary"
	"fmt"
)

// Frame constants (all multi-byte integers on the wire are big-endian)
const (
	// StartMarkRequest opens every client-to-hub frame
	StartMarkRequest uint16 = 0xFE00
	// StartMarkResponse opens every hub-to-client frame
	StartMarkResponse uint16 = 0xFE01
	// EndMark terminates every frame
	EndMark uint16 = 0x00FF

	// FrameOverhead is the fixed portion of a frame: start mark (2),
	// command (2), data length (2), list length (2), checksum (1),
	// end mark (2). Total frame size is FrameOverhead + dataLen.
	FrameOverhead = 11

	// HeaderSize is the offset at which the variable payload begins
	HeaderSize = 8
)

// Addressing constants
const (
	// BroadcastAddress targets every device known to the hub
	BroadcastAddress uint16 = 0xFFFF

	// InvalidGroup is the reserved group ID the hub returns on failure
	InvalidGroup uint16 = 0xFFFF

	// DefaultPort is the hub's TCP control port
	DefaultPort = 1234
)

// Packet is one decoded protocol frame.
//
// StartMark distinguishes request from response framing; ListLen counts
// the logical list elements encoded inside Data (its meaning depends on
// the command). FCS is the transmitted XOR checksum.
type Packet struct {
	StartMark uint16
	Cmd       CommandID
	ListLen   uint16
	Data      []byte
	FCS       byte
}

// IsRequest reports whether the packet carries the request start mark.
func (p *Packet) IsRequest() bool {
	return p.StartMark == StartMarkRequest
}

// String returns a debug representation of the packet
func (p *Packet) String() string {
	dir := "response"
	if p.IsRequest() {
		dir = "request"
	}
	return fmt.Sprintf("Packet{%s, cmd=%s, data=%d bytes, list=%d}",
		dir, p.Cmd, len(p.Data), p.ListLen)
}

// Checksum computes the frame check sequence: a running XOR of every
// byte. The identity for empty input is 0.
func Checksum(data []byte) byte {
	var fcs byte
	for _, b := range data {
		fcs ^= b
	}
	return fcs
}

// EncodeFrame builds a complete wire frame around the given payload.
// The checksum covers command, data length, list length and payload
// (bytes 2 through 8+dataLen of the frame).
func EncodeFrame(cmd CommandID, data []byte, listLen uint16, request bool) []byte {
	frame := make([]byte, FrameOverhead+len(data))

	start := StartMarkResponse
	if request {
		start = StartMarkRequest
	}
	binary.BigEndian.PutUint16(frame[0:2], start)
	binary.BigEndian.PutUint16(frame[2:4], uint16(cmd))
	binary.BigEndian.PutUint16(frame[4:6], uint16(len(data)))
	binary.BigEndian.PutUint16(frame[6:8], listLen)
	copy(frame[HeaderSize:], data)

	fcsEnd := HeaderSize + len(data)
	frame[fcsEnd] = Checksum(frame[2:fcsEnd])
	binary.BigEndian.PutUint16(frame[fcsEnd+1:], EndMark)

	return frame
}

// DecodeFrame parses and validates a complete wire frame.
//
// Validation order is fixed: minimum length, start mark, declared payload
// length, end mark, checksum. Each failure maps to one sentinel error so
// callers can distinguish them with errors.Is.
func DecodeFrame(buf []byte) (*Packet, error) {
	if len(buf) < FrameOverhead {
		return nil, fmt.Errorf("frame is %d bytes (minimum %d): %w",
			len(buf), FrameOverhead, ErrTooShort)
	}

	start := binary.BigEndian.Uint16(buf[0:2])
	if start != StartMarkRequest && start != StartMarkResponse {
		return nil, fmt.Errorf("start mark 0x%04X: %w", start, ErrBadStartMark)
	}

	dataLen := int(binary.BigEndian.Uint16(buf[4:6]))
	total := FrameOverhead + dataLen
	if len(buf) < total {
		return nil, fmt.Errorf("frame declares %d payload bytes but buffer holds %d: %w",
			dataLen, len(buf)-FrameOverhead, ErrIncomplete)
	}

	end := binary.BigEndian.Uint16(buf[total-2 : total])
	if end != EndMark {
		return nil, fmt.Errorf("end mark 0x%04X: %w", end, ErrBadEndMark)
	}

	fcs := buf[HeaderSize+dataLen]
	if want := Checksum(buf[2 : HeaderSize+dataLen]); fcs != want {
		return nil, fmt.Errorf("checksum 0x%02X (computed 0x%02X): %w",
			fcs, want, ErrChecksum)
	}

	data := make([]byte, dataLen)
	copy(data, buf[HeaderSize:HeaderSize+dataLen])

	return &Packet{
		StartMark: start,
		Cmd:       CommandID(binary.BigEndian.Uint16(buf[2:4])),
		ListLen:   binary.BigEndian.Uint16(buf[6:8]),
		Data:      data,
		FCS:       fcs,
	}, nil
}

// expectCommand verifies a response packet carries the expected command.
// Every Parse* function calls this before touching the payload.
func expectCommand(p *Packet, want CommandID) error {
	if p.Cmd != want {
		return fmt.Errorf("got %s, want %s: %w", p.Cmd, want, ErrUnexpectedCommand)
	}
	return nil
}
