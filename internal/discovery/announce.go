package discovery

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/hublink/internal/cipher"
)

const (
	// AnnouncePort is the UDP port hubs broadcast their presence on
	AnnouncePort = 1235

	// DefaultScanTimeout is the default timeout for hub discovery.
	// Hubs announce roughly every five seconds, so ten seconds gives
	// every hub at least one chance to be heard.
	DefaultScanTimeout = 10 * time.Second
)

// announcePattern matches hub announcement datagrams, e.g.
// "HUB HL200 00124b3289bb 1234".
var announcePattern = regexp.MustCompile(`^HUB (\S+) ([0-9a-fA-F:\-]+) (\d+)$`)

// Scanner listens for hub announcement broadcasts.
type Scanner struct {
	// Timeout is the maximum time to wait for announcements
	Timeout time.Duration
}

// NewScanner creates a new announcement scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForHubs listens for announcements and returns every distinct hub
// heard before the timeout.
func (s *Scanner) ScanForHubs() ([]*Hub, error) {
	return s.ScanForHubsWithContext(context.Background())
}

// ScanForHubsWithContext listens for announcements with a custom context
func (s *Scanner) ScanForHubsWithContext(ctx context.Context) ([]*Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: AnnouncePort})
	if err != nil {
		return nil, fmt.Errorf("failed to listen for hub announcements: %w", err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	_ = conn.SetReadDeadline(deadline)

	// Stop blocking in ReadFromUDP as soon as the caller cancels.
	go func() {
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()

	seen := make(map[string]*Hub)
	order := make([]*Hub, 0)
	buf := make([]byte, 512)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || isTimeout(err) {
				return order, nil
			}
			return order, fmt.Errorf("failed to read announcement: %w", err)
		}

		hub := ParseAnnouncement(string(buf[:n]), src.IP.String())
		if hub == nil {
			continue
		}
		if _, dup := seen[hub.Identifier]; dup {
			continue
		}
		seen[hub.Identifier] = hub
		order = append(order, hub)
	}
}

func isTimeout(err error) bool {
	nerr, ok := err.(net.Error)
	return ok && nerr.Timeout()
}

// WaitForHub listens until a specific hub is heard from.
// Returns the hub or an error if not heard within the timeout.
func (s *Scanner) WaitForHub(identifier string) (*Hub, error) {
	return s.WaitForHubWithContext(context.Background(), identifier)
}

// WaitForHubWithContext waits for a specific hub with a custom context
func (s *Scanner) WaitForHubWithContext(ctx context.Context, identifier string) (*Hub, error) {
	want, err := cipher.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	wantID := cipher.FormatIdentifier(want)

	hubs, err := s.scanUntil(ctx, func(h *Hub) bool {
		return h.Identifier == wantID
	})
	if err != nil {
		return nil, err
	}
	for _, h := range hubs {
		if h.Identifier == wantID {
			return h, nil
		}
	}
	return nil, fmt.Errorf("hub %s not heard within timeout", wantID)
}

// scanUntil listens like ScanForHubsWithContext but stops as soon as
// stop returns true for a parsed hub.
func (s *Scanner) scanUntil(ctx context.Context, stop func(*Hub) bool) ([]*Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: AnnouncePort})
	if err != nil {
		return nil, fmt.Errorf("failed to listen for hub announcements: %w", err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	_ = conn.SetReadDeadline(deadline)
	go func() {
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()

	seen := make(map[string]*Hub)
	order := make([]*Hub, 0)
	buf := make([]byte, 512)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			return order, nil
		}
		hub := ParseAnnouncement(string(buf[:n]), src.IP.String())
		if hub == nil {
			continue
		}
		if _, dup := seen[hub.Identifier]; dup {
			continue
		}
		seen[hub.Identifier] = hub
		order = append(order, hub)
		if stop(hub) {
			return order, nil
		}
	}
}

// ParseAnnouncement parses one announcement datagram.
// Returns nil if the payload is not a hub announcement.
func ParseAnnouncement(payload, srcIP string) *Hub {
	matches := announcePattern.FindStringSubmatch(strings.TrimSpace(payload))
	if len(matches) < 4 {
		return nil
	}

	id, err := cipher.ParseIdentifier(matches[2])
	if err != nil {
		return nil
	}
	port, err := strconv.Atoi(matches[3])
	if err != nil || port == 0 || port > 0xFFFF {
		return nil
	}

	return &Hub{
		Identifier:   cipher.FormatIdentifier(id),
		Model:        matches[1],
		IP:           srcIP,
		Port:         port,
		Source:       SourceAnnounce,
		DiscoveredAt: time.Now(),
	}
}

// ScanForHubs is a convenience function to scan with a custom timeout
func ScanForHubs(timeout time.Duration) ([]*Hub, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForHubs()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Hub, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForHubs()
}

// FindHub searches for a specific hub by identifier with default timeout
func FindHub(identifier string) (*Hub, error) {
	scanner := NewScanner()
	return scanner.WaitForHub(identifier)
}
