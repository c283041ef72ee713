package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func serviceEntry(host string, port int, txt []string, v4 []net.IP) *zeroconf.ServiceEntry {
	entry := zeroconf.NewServiceEntry(host, ServiceType, ServiceDomain)
	entry.HostName = host + ".local."
	entry.Port = port
	entry.Text = txt
	entry.AddrIPv4 = v4
	return entry
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry *zeroconf.ServiceEntry
		want  *Hub
	}{
		{
			name: "full txt records",
			entry: serviceEntry("hub-3289bb", 1234,
				[]string{"id=00124b3289bb", "model=HL200"},
				[]net.IP{net.ParseIP("192.168.1.50")}),
			want: &Hub{
				Identifier: "00:12:4b:32:89:bb",
				Model:      "HL200",
				IP:         "192.168.1.50",
				Port:       1234,
			},
		},
		{
			name: "missing model",
			entry: serviceEntry("hub-3289bb", 1234,
				[]string{"id=00124b3289bb"},
				[]net.IP{net.ParseIP("192.168.1.50")}),
			want: &Hub{
				Identifier: "00:12:4b:32:89:bb",
				IP:         "192.168.1.50",
				Port:       1234,
			},
		},
		{
			name: "default port",
			entry: serviceEntry("hub-3289bb", 0,
				[]string{"id=00124b3289bb"},
				[]net.IP{net.ParseIP("192.168.1.50")}),
			want: &Hub{
				Identifier: "00:12:4b:32:89:bb",
				IP:         "192.168.1.50",
				Port:       1234,
			},
		},
		{
			name: "missing identifier",
			entry: serviceEntry("printer", 631,
				[]string{"model=LaserJet"},
				[]net.IP{net.ParseIP("192.168.1.9")}),
			want: nil,
		},
		{
			name: "malformed identifier",
			entry: serviceEntry("hub-bad", 1234,
				[]string{"id=not-hex"},
				[]net.IP{net.ParseIP("192.168.1.50")}),
			want: nil,
		},
		{
			name: "no address",
			entry: serviceEntry("hub-3289bb", 1234,
				[]string{"id=00124b3289bb"}, nil),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseServiceEntry(tt.entry)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("parseServiceEntry() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("parseServiceEntry() = nil, want %v", tt.want)
			}
			if got.Identifier != tt.want.Identifier {
				t.Errorf("Identifier = %q, want %q", got.Identifier, tt.want.Identifier)
			}
			if got.Model != tt.want.Model {
				t.Errorf("Model = %q, want %q", got.Model, tt.want.Model)
			}
			if got.IP != tt.want.IP {
				t.Errorf("IP = %q, want %q", got.IP, tt.want.IP)
			}
			if got.Port != tt.want.Port {
				t.Errorf("Port = %d, want %d", got.Port, tt.want.Port)
			}
			if got.Source != SourceMDNS {
				t.Errorf("Source = %q, want %q", got.Source, SourceMDNS)
			}
		})
	}
}
