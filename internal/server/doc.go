// Package server implements the WebSocket status-push server.
//
// The bridge daemon feeds it one StatusMessage per status poll;
// subscribers connect to /ws and receive each snapshot as a JSON text
// message, starting with the most recent one so a fresh subscriber
// never waits a full poll interval for its first state. /healthz
// reports liveness and the subscriber count.
//
// Slow subscribers are disconnected rather than allowed to stall the
// broadcast: each client has a bounded send queue and the push is
// dropped on the floor when it is full.
package server
