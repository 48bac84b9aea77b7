package transport

import (
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/Goden-Gun/longpoll-lib/pkg/logger"
)

// PollResponse is the JSON body of a poll (or connect) response.
type PollResponse struct {
	MessageID       string            `json:"C"`
	Messages        []json.RawMessage `json:"M"`
	Initialized     int               `json:"S"`
	ShouldReconnect int               `json:"T"`
	Disconnected    int               `json:"D"`
	GroupsToken     string            `json:"G"`
	LongPollDelay   *int64            `json:"L"`
}

// ProcessResponse parses a poll body, forwards every framed message to the
// connection, and returns whether the server asked for a reconnect. The
// onInitialized callback fires when the body carries the init marker; it may
// be nil. An empty body is a no-op (a long poll that timed out server-side).
//
// Messages are dispatched in order; callers that must observe a state change
// ahead of the batch have to apply it before calling ProcessResponse.
func ProcessResponse(conn Connection, body string, onInitialized func()) (shouldReconnect bool, err error) {
	conn.MarkLastMessage()

	if strings.TrimSpace(body) == "" {
		return false, nil
	}

	var resp PollResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return false, fmt.Errorf("process response: %w", err)
	}

	if resp.Initialized == 1 && onInitialized != nil {
		onInitialized()
	}

	if resp.GroupsToken != "" {
		conn.SetGroupsToken(resp.GroupsToken)
	}
	if resp.MessageID != "" {
		conn.SetMessageID(resp.MessageID)
	}

	for _, msg := range resp.Messages {
		conn.OnMessage(msg)
	}

	if resp.Disconnected == 1 {
		conn.Trace(log.InfoLevel, "disconnect command received from server")
		conn.Disconnect()
		return false, nil
	}

	return resp.ShouldReconnect == 1, nil
}
