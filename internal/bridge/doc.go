// Package bridge runs the long-lived daemon that joins one hub session
// to MQTT and to WebSocket status subscribers.
package bridge
