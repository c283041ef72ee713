package hub

// State is the connection lifecycle state. Application-level commands
// are only accepted in StateReady.
//
// Transitions:
//
//	Disconnected → Connecting → Handshaking → Ready
//	Ready → Disconnected (explicit close)
//	Ready → Reconnecting → Connecting … (transport failure)
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateHandshaking
	StateReady
	StateReconnecting
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateReady:
		return "ready"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "invalid"
	}
}
