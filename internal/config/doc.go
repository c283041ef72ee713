// Package config provides user configuration management for the Hublink project.
//
// This package manages a YAML-based configuration file that stores the hub
// address and connection tuning, user-defined metadata for mesh devices
// (nicknames and room labels), the bridge daemon settings and application
// preferences. The configuration follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/hublink/config.yaml or $HOME/.config/hublink/config.yaml
//   - macOS: $HOME/.config/hublink/config.yaml
//   - Windows: %LOCALAPPDATA%\hublink\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores sensitive credentials such as the hub
// remote-access password or MQTT passwords. These are always prompted from the
// user or read from the environment when needed.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Point it at the hub and name a device
//	registry.Hub = &config.HubConfig{Host: "192.168.1.50"}
//	registry.SetDeviceNickname("00:17:88:01:02:03:04:05", "Living Room Ceiling")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
