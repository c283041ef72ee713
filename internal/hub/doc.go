// Package hub maintains the TCP session with a hub and exposes its
// command surface.
//
// A Connection owns one socket, the session key derived during the
// handshake and a single outstanding-request slot. The protocol has no
// request correlation, so only one command may be in flight at a time;
// concurrent callers get ErrCommandBusy immediately. Lost sessions
// reconnect forever on a fixed delay, and periodic keep-alive pings and
// optional status polling run in the background while a session is
// Ready.
package hub
