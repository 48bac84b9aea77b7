package transport

import (
	"net/http"

	log "github.com/Goden-Gun/longpoll-lib/pkg/logger"
)

// Connection is the logical connection a transport keeps alive. The concrete
// implementation lives above the transport layer; transports drive it through
// this interface only.
type Connection interface {
	// State returns the current connection state.
	State() State
	// ChangeState atomically transitions from -> to and reports whether the
	// transition was applied. A failed precondition is not an error: the
	// state simply moved on for another reason and the caller must not act.
	ChangeState(from, to State) bool
	// Disconnect tears the connection down (server sent a disconnect command).
	Disconnect()

	// OnMessage delivers one parsed message to the connection.
	OnMessage(data []byte)
	// OnReconnected notifies that the transport recovered from a reconnect.
	OnReconnected()
	// OnError surfaces an unexpected transport error.
	OnError(err error)

	// PrepareRequest lets the connection customize an outbound request
	// (headers, credentials) before the transport sends it.
	PrepareRequest(req *http.Request)
	// Trace emits a transport trace event through the connection's logger.
	Trace(level log.Level, format string, args ...any)

	// MarkLastMessage records that traffic arrived, for keep-alive monitoring.
	MarkLastMessage()
	// VerifyLastActive reports whether the connection has been active recently
	// enough that retrying is still worthwhile. The threshold is the
	// connection's policy, not the transport's.
	VerifyLastActive() bool

	// URL material consumed by transports.
	Endpoint() string
	ConnectionToken() string
	Protocol() string
	MessageID() string
	SetMessageID(id string)
	GroupsToken() string
	SetGroupsToken(token string)
}

// InitHandler coordinates transport initialization with the owning connection.
// Received is idempotent; Failed wins over a later Received and vice versa.
type InitHandler interface {
	// Received signals the init payload was observed in a response.
	Received()
	// Failed signals initialization cannot complete.
	Failed(err error)
	// OnFailure registers a cleanup hook run if initialization ultimately
	// fails, e.g. to stop an engine that must never begin polling.
	OnFailure(fn func())
}

// EnsureReconnecting moves a connected connection into the reconnecting state
// and reports whether the connection is reconnecting afterwards.
func EnsureReconnecting(conn Connection) bool {
	if conn.ChangeState(StateConnected, StateReconnecting) {
		return true
	}
	return conn.State() == StateReconnecting
}
