// Package negotiation implements the initial handshake that establishes
// connection identity and transport capabilities before any transport starts.
package negotiation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Goden-Gun/longpoll-lib/pkg/tracing"
	"github.com/Goden-Gun/longpoll-lib/pkg/transport"
	"github.com/Goden-Gun/longpoll-lib/pkg/urls"
)

// Result is the immutable outcome of a negotiate exchange. KeepAliveTimeout
// is nil when the server did not advertise keep-alive; its presence is the
// sole signal that liveness supervision applies to this connection.
type Result struct {
	ConnectionToken   string
	ConnectionID      string
	ProtocolVersion   string
	KeepAliveTimeout  *time.Duration
	DisconnectTimeout time.Duration
	TryWebSockets     bool
}

// SupportsKeepAlive reports whether the server advertised a keep-alive
// interval.
func (r *Result) SupportsKeepAlive() bool {
	return r != nil && r.KeepAliveTimeout != nil
}

type negotiateResponse struct {
	ConnectionToken   string   `json:"ConnectionToken"`
	ConnectionID      string   `json:"ConnectionId"`
	ProtocolVersion   string   `json:"ProtocolVersion"`
	KeepAliveTimeout  *float64 `json:"KeepAliveTimeout"`
	DisconnectTimeout float64  `json:"DisconnectTimeout"`
	TryWebSockets     bool     `json:"TryWebSockets"`
}

// Negotiate performs one negotiate exchange. Failures propagate as
// *transport.NegotiationError; there is no retry at this layer.
func Negotiate(ctx context.Context, client *http.Client, b *urls.Builder, conn transport.Connection) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.Negotiate(), nil)
	if err != nil {
		return nil, &transport.NegotiationError{Err: err}
	}
	req.Header.Set("X-Client-Id", uuid.NewString())
	tracing.InjectHeaders(ctx, req.Header)
	if conn != nil {
		conn.PrepareRequest(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &transport.NegotiationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &transport.NegotiationError{
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transport.NegotiationError{Err: err}
	}

	var nr negotiateResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, &transport.NegotiationError{Err: err}
	}

	result := &Result{
		ConnectionToken:   nr.ConnectionToken,
		ConnectionID:      nr.ConnectionID,
		ProtocolVersion:   nr.ProtocolVersion,
		DisconnectTimeout: secondsToDuration(nr.DisconnectTimeout),
		TryWebSockets:     nr.TryWebSockets,
	}
	if nr.KeepAliveTimeout != nil {
		ka := secondsToDuration(*nr.KeepAliveTimeout)
		result.KeepAliveTimeout = &ka
	}
	return result, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
