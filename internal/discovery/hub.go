package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Source says which mechanism found a hub.
type Source string

const (
	// SourceAnnounce marks hubs heard through their periodic UDP
	// broadcast
	SourceAnnounce Source = "announce"
	// SourceMDNS marks hubs resolved through mDNS
	SourceMDNS Source = "mdns"
)

// Hub represents a hub discovered on the local network.
type Hub struct {
	// Identifier is the colon-delimited 6-byte hub ID
	// (e.g., "00:12:4b:32:89:bb")
	Identifier string

	// Model is the hub model string from the announcement
	// (e.g., "HL200")
	Model string

	// IP is the hub's IPv4 address
	IP string

	// Port is the TCP control port (typically 1234)
	Port int

	// Source is the mechanism that found the hub
	Source Source

	// DiscoveredAt is when the hub was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the hub
func (h *Hub) String() string {
	return fmt.Sprintf("Hub %s (%s) at %s:%d", h.Identifier, h.Model, h.IP, h.Port)
}

// Addr returns the host:port dial target for the hub's control port.
func (h *Hub) Addr() string {
	return net.JoinHostPort(h.IP, strconv.Itoa(h.Port))
}
