// Package discovery finds hubs on the local network.
//
// Hubs broadcast a plaintext announcement datagram on UDP port 1235
// roughly every five seconds:
//
//	HUB <model> <identifier> <port>
//
// The Scanner listens for these and collects every distinct hub heard
// before its timeout. Newer firmware additionally advertises a
// _hublink._tcp mDNS service carrying the identifier and model in TXT
// records; ScanMDNS browses for those and MergeHubs combines both
// result sets.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	hubs, err := scanner.ScanForHubs()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, hub := range hubs {
//	    fmt.Println(hub)
//	}
package discovery
