package hub

import (
	"errors"
	"fmt"
)

// Connection-state errors. Frame-level errors come from
// internal/protocol and internal/cipher; everything here concerns the
// session itself.
var (
	// ErrNotConnected means a command was issued while the connection
	// was not in the Ready state
	ErrNotConnected = errors.New("not connected")

	// ErrCommandBusy means a command was issued while another was
	// still outstanding. The protocol has no correlation IDs, so only
	// one request may be in flight at a time.
	ErrCommandBusy = errors.New("command already pending")

	// ErrCommandTimeout means no response arrived before the command's
	// timer expired. The pending slot is cleared; the connection
	// itself stays up.
	ErrCommandTimeout = errors.New("command timed out")

	// ErrClosed means the connection was explicitly closed and will
	// not reconnect
	ErrClosed = errors.New("connection closed")
)

// TransportError wraps a socket-level failure. Unlike frame or command
// errors, a transport error tears down the connection and triggers the
// reconnect cycle.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying socket error
func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// IsTransportError reports whether err is a socket-level failure
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
