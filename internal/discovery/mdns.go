package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/hublink/internal/cipher"
	"github.com/muurk/hublink/internal/protocol"
)

const (
	// ServiceType is the mDNS service type newer hub firmware
	// advertises alongside the UDP broadcast
	ServiceType = "_hublink._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// ScanMDNS browses for hubs over mDNS. Older firmware only broadcasts
// over UDP, so this is a secondary path; callers normally merge its
// results with ScanForHubs.
func (s *Scanner) ScanMDNS(ctx context.Context) ([]*Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	hubs := make([]*Hub, 0)
	done := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			if hub := parseServiceEntry(entry); hub != nil {
				hubs = append(hubs, hub)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	return hubs, nil
}

// parseServiceEntry converts a zeroconf service entry to a Hub.
// Returns nil if the entry doesn't carry a hub identifier.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Hub {
	// TXT records are in "key=value" format; the identifier is
	// mandatory, the model optional.
	var idText, model string
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "id":
			idText = parts[1]
		case "model":
			model = parts[1]
		}
	}
	if idText == "" {
		return nil
	}
	id, err := cipher.ParseIdentifier(idText)
	if err != nil {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = protocol.DefaultPort
	}

	return &Hub{
		Identifier:   cipher.FormatIdentifier(id),
		Model:        model,
		IP:           ip,
		Port:         port,
		Source:       SourceMDNS,
		DiscoveredAt: time.Now(),
	}
}

// MergeHubs combines announcement and mDNS results, deduplicating by
// identifier. Announcement entries win because they carry the model
// string on every firmware revision.
func MergeHubs(lists ...[]*Hub) []*Hub {
	seen := make(map[string]bool)
	merged := make([]*Hub, 0)
	for _, list := range lists {
		for _, h := range list {
			if seen[h.Identifier] {
				continue
			}
			seen[h.Identifier] = true
			merged = append(merged, h)
		}
	}
	return merged
}
