package protocol

import "errors"

// Frame decode errors. All of them are fatal to the single exchange being
// decoded, never to the connection that received the bytes.
var (
	// ErrTooShort means the buffer cannot hold even an empty frame
	ErrTooShort = errors.New("frame too short")

	// ErrBadStartMark means the first two bytes match neither the
	// request nor the response constant
	ErrBadStartMark = errors.New("bad start mark")

	// ErrIncomplete means the buffer is shorter than the frame's own
	// declared length
	ErrIncomplete = errors.New("incomplete frame")

	// ErrBadEndMark means the terminator field is wrong
	ErrBadEndMark = errors.New("bad end mark")

	// ErrChecksum means the transmitted FCS does not match the
	// recomputed one
	ErrChecksum = errors.New("checksum mismatch")

	// ErrUnexpectedCommand means a response did not match the
	// request's command
	ErrUnexpectedCommand = errors.New("unexpected command")

	// ErrCommandRejected means the hub acknowledged a command with a
	// non-zero status byte
	ErrCommandRejected = errors.New("command rejected by hub")

	// ErrInvalidGroup means the hub answered a group operation with
	// the reserved invalid group ID
	ErrInvalidGroup = errors.New("invalid group")
)
