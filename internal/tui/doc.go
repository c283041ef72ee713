// Package tui implements the interactive device monitor.
//
// The monitor is a Bubble Tea program fed by two channels: status poll
// results and connection state changes. It renders the latest snapshot
// in a table with the connection state in the header, and exits on q
// or when either channel closes.
package tui
