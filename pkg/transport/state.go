package transport

// State represents the lifecycle state of a logical connection. The state
// itself is owned by the connection; transports only read it and request
// guarded transitions through Connection.ChangeState.
type State int32

const (
	StateConnecting State = iota
	StateConnected
	StateReconnecting
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
