package discovery

import (
	"testing"
	"time"
)

func TestParseAnnouncement(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *Hub
	}{
		{
			name:    "plain identifier",
			payload: "HUB HL200 00124b3289bb 1234",
			want: &Hub{
				Identifier: "00:12:4b:32:89:bb",
				Model:      "HL200",
				Port:       1234,
			},
		},
		{
			name:    "colon-delimited identifier",
			payload: "HUB HL300 00:12:4B:32:89:BB 4321",
			want: &Hub{
				Identifier: "00:12:4b:32:89:bb",
				Model:      "HL300",
				Port:       4321,
			},
		},
		{
			name:    "trailing newline",
			payload: "HUB HL200 00124b3289bb 1234\n",
			want: &Hub{
				Identifier: "00:12:4b:32:89:bb",
				Model:      "HL200",
				Port:       1234,
			},
		},
		{
			name:    "wrong prefix",
			payload: "GW HL200 00124b3289bb 1234",
			want:    nil,
		},
		{
			name:    "identifier too short",
			payload: "HUB HL200 00124b 1234",
			want:    nil,
		},
		{
			name:    "port not a number",
			payload: "HUB HL200 00124b3289bb control",
			want:    nil,
		},
		{
			name:    "port out of range",
			payload: "HUB HL200 00124b3289bb 70000",
			want:    nil,
		},
		{
			name:    "missing fields",
			payload: "HUB HL200",
			want:    nil,
		},
		{
			name:    "empty payload",
			payload: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnnouncement(tt.payload, "192.168.1.50")
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ParseAnnouncement(%q) = %v, want nil", tt.payload, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseAnnouncement(%q) = nil, want %v", tt.payload, tt.want)
			}
			if got.Identifier != tt.want.Identifier {
				t.Errorf("Identifier = %q, want %q", got.Identifier, tt.want.Identifier)
			}
			if got.Model != tt.want.Model {
				t.Errorf("Model = %q, want %q", got.Model, tt.want.Model)
			}
			if got.Port != tt.want.Port {
				t.Errorf("Port = %d, want %d", got.Port, tt.want.Port)
			}
			if got.IP != "192.168.1.50" {
				t.Errorf("IP = %q, want source address", got.IP)
			}
			if got.Source != SourceAnnounce {
				t.Errorf("Source = %q, want %q", got.Source, SourceAnnounce)
			}
			if got.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestHubString(t *testing.T) {
	hub := &Hub{
		Identifier: "00:12:4b:32:89:bb",
		Model:      "HL200",
		IP:         "192.168.1.50",
		Port:       1234,
	}

	want := "Hub 00:12:4b:32:89:bb (HL200) at 192.168.1.50:1234"
	if got := hub.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := hub.Addr(); got != "192.168.1.50:1234" {
		t.Errorf("Addr() = %q, want 192.168.1.50:1234", got)
	}
}

func TestMergeHubs(t *testing.T) {
	announced := []*Hub{
		{Identifier: "00:12:4b:32:89:bb", Model: "HL200", Source: SourceAnnounce},
		{Identifier: "00:12:4b:00:00:01", Model: "HL300", Source: SourceAnnounce},
	}
	mdns := []*Hub{
		{Identifier: "00:12:4b:32:89:bb", Source: SourceMDNS}, // duplicate
		{Identifier: "00:12:4b:00:00:02", Source: SourceMDNS},
	}

	merged := MergeHubs(announced, mdns)
	if len(merged) != 3 {
		t.Fatalf("MergeHubs() returned %d hubs, want 3", len(merged))
	}
	// The announcement entry wins for the duplicated identifier.
	if merged[0].Source != SourceAnnounce || merged[0].Model != "HL200" {
		t.Errorf("merged[0] = %+v, want the announcement entry", merged[0])
	}
	if merged[2].Identifier != "00:12:4b:00:00:02" {
		t.Errorf("merged[2] = %+v, want the mDNS-only hub", merged[2])
	}
}

func TestNewScannerDefaults(t *testing.T) {
	s := NewScanner()
	if s.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
	if DefaultScanTimeout != 10*time.Second {
		t.Errorf("DefaultScanTimeout = %v, want 10s", DefaultScanTimeout)
	}
}
