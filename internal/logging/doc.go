// Package logging provides structured logging for the hublink client.
//
// This package wraps zap logger with convenience functions for common
// logging patterns used throughout the client. It provides both general
// logging functions and specialized functions for protocol-level logging.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, frame parsing, keep-alive)
//   - Info: Normal operations (connections, commands, state changes)
//   - Warn: Non-fatal issues (poll failures, reconnect attempts)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Hub connected",
//	    zap.String("remote_addr", "192.168.1.100:1234"),
//	    zap.String("hub_id", "00:12:4b:32:89:bb"),
//	)
//
// # Specialized Logging
//
// Connection lifecycle:
//
//	logging.LogConnection(remoteAddr, "connected")
//	logging.LogConnection(remoteAddr, "handshake_complete")
//	logging.LogConnection(remoteAddr, "disconnected")
//
// Frame exchanges:
//
//	logging.LogFrame("sent", true, frameBytes)
//	logging.LogFrame("received", true, responseBytes)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// CLI commands that want silent output by default should use
// InitializeFromEnv, which only enables output when HUBLINK_LOG_LEVEL
// is set.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
