// Package mqtt implements the MQTT side of the bridge daemon.
//
// Topic layout under the configurable prefix (default "hublink"):
//
//	<prefix>/bridge/status          retained "online"/"offline" (LWT)
//	<prefix>/device/<addr>/state    retained per-device state JSON
//	<prefix>/event/<type>           bridge events
//	<prefix>/cmd/<addr>/set         inbound commands (subscribed)
//
// Command payloads are JSON objects ({"on":true,"brightness":128}) or
// the bare strings "on"/"off". Each parsed command is handed to the
// bridge, which turns it into hub protocol requests.
package mqtt
