package config

import "time"

// Registry represents the entire user configuration file: the hub to
// talk to, user-defined device metadata and application preferences.
type Registry struct {
	Version     int                    `yaml:"version"`
	Hub         *HubConfig             `yaml:"hub,omitempty"`
	Hubs        map[string]*HubMeta    `yaml:"hubs,omitempty"`    // Keyed by hub identifier
	Devices     map[string]*DeviceMeta `yaml:"devices,omitempty"` // Keyed by device MAC address
	Bridge      *BridgeConfig          `yaml:"bridge,omitempty"`
	Preferences *Preferences           `yaml:"preferences,omitempty"`
}

// HubConfig selects the hub and tunes the connection. All durations are
// in seconds; zero means the built-in default.
type HubConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port,omitempty"`
	ConnectTimeout    int    `yaml:"connect_timeout,omitempty"`
	CommandTimeout    int    `yaml:"command_timeout,omitempty"`
	KeepAliveInterval int    `yaml:"keepalive_interval,omitempty"`
	ReconnectDelay    int    `yaml:"reconnect_delay,omitempty"`
	PollInterval      int    `yaml:"poll_interval,omitempty"`
}

// HubMeta stores user-defined metadata for a hub seen on the network.
type HubMeta struct {
	Nickname string    `yaml:"nickname,omitempty"`
	LastIP   string    `yaml:"last_ip,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// DeviceMeta stores user-defined metadata for a single mesh device.
// This is purely client-side information, the hub keeps no names.
type DeviceMeta struct {
	Nickname string    `yaml:"nickname,omitempty"` // User-friendly name
	Room     string    `yaml:"room,omitempty"`     // Free-form room label
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// BridgeConfig configures the long-running bridge daemon.
type BridgeConfig struct {
	ListenAddr string      `yaml:"listen_addr,omitempty"` // WebSocket status server, empty disables
	MQTT       *MQTTConfig `yaml:"mqtt,omitempty"`
}

// MQTTConfig configures the MQTT side of the bridge. Passwords are
// NEVER stored here; they are prompted or taken from the environment.
type MQTTConfig struct {
	Broker      string `yaml:"broker"` // e.g. tcp://127.0.0.1:1883
	ClientID    string `yaml:"client_id,omitempty"`
	Username    string `yaml:"username,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
	QoS         int    `yaml:"qos,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool   `yaml:"auto_discover"`    // Scan for hubs when no host is configured
	DiscoverTimeout int    `yaml:"discover_timeout"` // Hub discovery timeout in seconds
	PairWindow      int    `yaml:"pair_window"`      // Default pairing window in seconds
	LogLevel        string `yaml:"log_level,omitempty"`
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*DeviceMeta),
		Hubs:    make(map[string]*HubMeta),
		Bridge: &BridgeConfig{
			MQTT: &MQTTConfig{
				ClientID:    "hublink",
				TopicPrefix: "hublink",
			},
		},
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			PairWindow:      60,
		},
	}
}

// GetDevice retrieves device metadata by MAC address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(mac string) *DeviceMeta {
	return r.Devices[mac]
}

// EnsureDevice ensures a device entry exists in the registry and
// returns it, creating a default entry first if needed.
func (r *Registry) EnsureDevice(mac string) *DeviceMeta {
	if r.Devices == nil {
		r.Devices = make(map[string]*DeviceMeta)
	}
	if device, exists := r.Devices[mac]; exists {
		return device
	}
	device := &DeviceMeta{}
	r.Devices[mac] = device
	return device
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(mac, nickname string) {
	r.EnsureDevice(mac).Nickname = nickname
}

// SetDeviceRoom sets the room label for a device.
func (r *Registry) SetDeviceRoom(mac, room string) {
	r.EnsureDevice(mac).Room = room
}

// EnsureHub ensures a hub entry exists in the registry and returns it.
func (r *Registry) EnsureHub(id string) *HubMeta {
	if r.Hubs == nil {
		r.Hubs = make(map[string]*HubMeta)
	}
	if hub, exists := r.Hubs[id]; exists {
		return hub
	}
	hub := &HubMeta{}
	r.Hubs[id] = hub
	return hub
}

// UpdateHubLastSeen records when and where a hub was last discovered.
func (r *Registry) UpdateHubLastSeen(id, ip string) {
	hub := r.EnsureHub(id)
	hub.LastSeen = time.Now()
	hub.LastIP = ip
}

// SetHubNickname sets a user-friendly nickname for a hub.
func (r *Registry) SetHubNickname(id, nickname string) {
	r.EnsureHub(id).Nickname = nickname
}

// DisplayName returns the nickname for a device if one is set, or the
// fallback otherwise.
func (r *Registry) DisplayName(mac, fallback string) string {
	if d := r.GetDevice(mac); d != nil && d.Nickname != "" {
		return d.Nickname
	}
	return fallback
}
