// Package protocol implements the hub's binary frame codec.
//
// Everything in this package is a pure transform between typed values and
// byte buffers; no I/O and no connection state. The connection layer in
// internal/hub owns the socket and feeds decrypted buffers into
// DecodeFrame.
//
// # Wire Format
//
// All multi-byte integers are big-endian, unsigned:
//
//	offset 0:         startMark  u16  0xFE00 (request) | 0xFE01 (response)
//	offset 2:         cmdId      u16
//	offset 4:         dataLen    u16
//	offset 6:         listLen    u16
//	offset 8:         data       dataLen bytes
//	offset 8+dataLen: fcs        u8   XOR of bytes[2 .. 8+dataLen)
//	offset 9+dataLen: endMark    u16  0x00FF
//
// The minimum frame is 11 bytes (dataLen = 0). DecodeFrame validates, in
// order: minimum length, start mark, declared length, end mark, checksum.
//
// # Command Codecs
//
// Each command has a Build*/Parse* pair. Build functions return complete
// request frames; Parse functions take an already-decoded Packet and
// verify the command ID before touching the payload. List-typed payloads
// (status, discovery, database listings, group members) iterate listLen
// times but stop early without error when the payload runs out, so
// callers must not assume an exact count.
//
// # Device Types
//
// Type-to-name and type-to-category associations are static lookup
// tables. Unknown type IDs synthesize an "Unknown (0x…)" name rather
// than failing, so a hub with newer firmware stays usable.
package protocol
