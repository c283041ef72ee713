package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "hublink") {
		t.Errorf("GetConfigDir() = %v, should contain 'hublink'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Hubs == nil {
		t.Error("NewRegistry().Hubs should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if !reg.Preferences.AutoDiscover {
		t.Error("NewRegistry().Preferences.AutoDiscover should be true by default")
	}
	if reg.Preferences.DiscoverTimeout != 10 {
		t.Errorf("NewRegistry().Preferences.DiscoverTimeout = %v, want 10", reg.Preferences.DiscoverTimeout)
	}
	if reg.Preferences.PairWindow != 60 {
		t.Errorf("NewRegistry().Preferences.PairWindow = %v, want 60", reg.Preferences.PairWindow)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice("00:17:88:01:02:03:04:05")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	device2 := reg.EnsureDevice("00:17:88:01:02:03:04:05")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same MAC")
	}

	device3 := reg.EnsureDevice("00:17:88:aa:bb:cc:dd:ee")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different MAC")
	}
}

func TestRegistrySetDeviceNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetDeviceNickname("00:17:88:01:02:03:04:05", "Living Room Ceiling")
	reg.SetDeviceRoom("00:17:88:01:02:03:04:05", "living room")

	device := reg.GetDevice("00:17:88:01:02:03:04:05")
	if device == nil {
		t.Fatal("Device should exist after SetDeviceNickname()")
	}
	if device.Nickname != "Living Room Ceiling" {
		t.Errorf("Nickname = %v, want 'Living Room Ceiling'", device.Nickname)
	}
	if device.Room != "living room" {
		t.Errorf("Room = %v, want 'living room'", device.Room)
	}
}

func TestRegistryDisplayName(t *testing.T) {
	reg := NewRegistry()
	reg.SetDeviceNickname("00:17:88:01:02:03:04:05", "Hallway")

	if got := reg.DisplayName("00:17:88:01:02:03:04:05", "Dimmable Light"); got != "Hallway" {
		t.Errorf("DisplayName = %v, want 'Hallway'", got)
	}
	if got := reg.DisplayName("00:17:88:ff:ff:ff:ff:ff", "Dimmable Light"); got != "Dimmable Light" {
		t.Errorf("DisplayName without nickname = %v, want fallback", got)
	}
}

func TestRegistryUpdateHubLastSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateHubLastSeen("00:12:4b:32:89:bb", "192.168.1.50")
	after := time.Now()

	hub := reg.Hubs["00:12:4b:32:89:bb"]
	if hub == nil {
		t.Fatal("Hub should exist after UpdateHubLastSeen()")
	}
	if hub.LastIP != "192.168.1.50" {
		t.Errorf("LastIP = %v, want 192.168.1.50", hub.LastIP)
	}
	if hub.LastSeen.Before(before) || hub.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", hub.LastSeen, before, after)
	}
}

func TestParseRegistry(t *testing.T) {
	data := []byte(`# Test config
version: 1
hub:
  host: 192.168.1.50
  port: 1234
  poll_interval: 30
devices:
  "00:17:88:01:02:03:04:05":
    nickname: "Living Room Ceiling"
    room: "living room"
bridge:
  listen_addr: ":8080"
  mqtt:
    broker: tcp://127.0.0.1:1883
    topic_prefix: hublink
preferences:
  auto_discover: true
  discover_timeout: 5
  pair_window: 30
  log_level: debug
`)

	reg, err := parseRegistry(data)
	if err != nil {
		t.Fatalf("parseRegistry() error = %v", err)
	}

	if reg.Hub == nil || reg.Hub.Host != "192.168.1.50" {
		t.Errorf("Hub = %+v, want host 192.168.1.50", reg.Hub)
	}
	if reg.Hub.PollInterval != 30 {
		t.Errorf("PollInterval = %v, want 30", reg.Hub.PollInterval)
	}

	device := reg.GetDevice("00:17:88:01:02:03:04:05")
	if device == nil {
		t.Fatal("device missing from parsed registry")
	}
	if device.Nickname != "Living Room Ceiling" {
		t.Errorf("Nickname = %v, want 'Living Room Ceiling'", device.Nickname)
	}

	if reg.Bridge == nil || reg.Bridge.ListenAddr != ":8080" {
		t.Errorf("Bridge = %+v, want listen_addr :8080", reg.Bridge)
	}
	if reg.Bridge.MQTT == nil || reg.Bridge.MQTT.Broker != "tcp://127.0.0.1:1883" {
		t.Errorf("MQTT = %+v, want broker tcp://127.0.0.1:1883", reg.Bridge.MQTT)
	}

	if reg.Preferences.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", reg.Preferences.LogLevel)
	}
}

func TestParseRegistryDefaults(t *testing.T) {
	reg, err := parseRegistry([]byte("version: 1\n"))
	if err != nil {
		t.Fatalf("parseRegistry() error = %v", err)
	}

	if reg.Devices == nil {
		t.Error("Devices map should be initialized")
	}
	if reg.Hubs == nil {
		t.Error("Hubs map should be initialized")
	}
	if reg.Preferences == nil || reg.Preferences.DiscoverTimeout != 10 {
		t.Errorf("Preferences = %+v, want defaults", reg.Preferences)
	}
}

func TestParseRegistryBadVersion(t *testing.T) {
	if _, err := parseRegistry([]byte("version: 2\n")); err == nil {
		t.Error("parseRegistry() should reject unknown versions")
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("00:17:88:01:02:03:04:05")
	}
}
