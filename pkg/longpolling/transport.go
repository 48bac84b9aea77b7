package longpolling

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Goden-Gun/longpoll-lib/pkg/config"
	log "github.com/Goden-Gun/longpoll-lib/pkg/logger"
	"github.com/Goden-Gun/longpoll-lib/pkg/negotiation"
	"github.com/Goden-Gun/longpoll-lib/pkg/poller"
	"github.com/Goden-Gun/longpoll-lib/pkg/tracing"
	"github.com/Goden-Gun/longpoll-lib/pkg/transport"
	"github.com/Goden-Gun/longpoll-lib/pkg/urls"
)

const (
	defaultReconnectDelay = 5 * time.Second
	defaultErrorDelay     = 2 * time.Second
)

// Transport simulates a persistent bidirectional connection over repeated
// HTTP request/response cycles. It negotiates, performs the initial connect,
// then hands the poll loop to a poller engine wired with a pollHandler.
type Transport struct {
	client *http.Client

	mu             sync.Mutex
	reconnectDelay time.Duration
	errorDelay     time.Duration

	supportsKeepAlive atomic.Bool
	handler           atomic.Pointer[pollHandler]
}

// New returns a transport using the given HTTP client (nil means a fresh
// default client). Reconnect and error delays start at their defaults of 5s
// and 2s.
func New(client *http.Client) *Transport {
	if client == nil {
		client = &http.Client{}
	}
	return &Transport{
		client:         client,
		reconnectDelay: defaultReconnectDelay,
		errorDelay:     defaultErrorDelay,
	}
}

// NewFromConfig builds a transport with delays taken from configuration.
func NewFromConfig(client *http.Client, cfg config.TransportConfig) *Transport {
	cfg.ApplyDefaults()
	t := New(client)
	t.SetReconnectDelay(cfg.ReconnectDelaySeconds.Duration())
	t.SetErrorDelay(cfg.ErrorDelaySeconds.Duration())
	return t
}

// Name returns the transport name used in protocol URLs.
func (t *Transport) Name() string {
	return "longPolling"
}

// SupportsKeepAlive reports whether the last negotiation advertised a
// keep-alive interval. Without it the keep-alive monitor must not supervise
// this transport.
func (t *Transport) SupportsKeepAlive() bool {
	return t.supportsKeepAlive.Load()
}

// ReconnectDelay is the wait before a delayed reconnect confirmation.
func (t *Transport) ReconnectDelay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reconnectDelay
}

// SetReconnectDelay updates the reconnect delay.
func (t *Transport) SetReconnectDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reconnectDelay = d
}

// ErrorDelay is the wait between polls after a failed cycle.
func (t *Transport) ErrorDelay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errorDelay
}

// SetErrorDelay updates the error delay.
func (t *Transport) SetErrorDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorDelay = d
}

// Negotiate performs the negotiate exchange for the connection. Failures
// propagate unchanged; there is no retry here.
func (t *Transport) Negotiate(ctx context.Context, conn transport.Connection, connectionData string) (*negotiation.Result, error) {
	b := urls.New(conn.Endpoint(), conn.Protocol(), connectionData)
	result, err := negotiation.Negotiate(ctx, t.client, b, conn)
	if err != nil {
		return nil, err
	}
	t.supportsKeepAlive.Store(result.SupportsKeepAlive())
	return result, nil
}

// Start performs the initial connect request and, only once it succeeds,
// starts the poll loop. A connect failure is reported to the init handler
// and does not propagate further; the loop never starts in that case.
//
// A Transport is single-use: the second and later Start calls return
// ErrTransportStarted without touching the running engine.
//
// The disconnect context is the external cancellation channel: once done, the
// current reconnect episode is consumed without confirmation and the engine
// stops for good.
func (t *Transport) Start(ctx context.Context, conn transport.Connection, connectionData string, disconnectCtx context.Context, init transport.InitHandler) error {
	if init == nil {
		return transport.ErrInitHandlerRequired
	}

	b := urls.New(conn.Endpoint(), conn.Protocol(), connectionData)
	h := newPollHandler(t, conn, b)
	engine := poller.New(t.client, h.callbacks())
	h.engine = engine

	if !t.handler.CompareAndSwap(nil, h) {
		return transport.ErrTransportStarted
	}

	// If initialization ultimately fails the engine must never poll.
	init.OnFailure(engine.Stop)

	if disconnectCtx == nil {
		disconnectCtx = context.Background()
	}
	h.setDisconnectWatch(context.AfterFunc(disconnectCtx, func() {
		h.invoker().Invoke(nil)
		engine.Stop()
	}))

	if err := t.connect(ctx, conn, b, init); err != nil {
		conn.Trace(log.WarnLevel, "LP connect failed: %v", err)
		init.Failed(&transport.StartError{Err: err})
		return nil
	}

	engine.Start()
	return nil
}

// connect issues the one-shot initial connect request and runs the body
// through the shared response processing, signalling the init handler on the
// init marker.
func (t *Transport) connect(ctx context.Context, conn transport.Connection, b *urls.Builder, init transport.InitHandler) error {
	u := b.Connect(t.Name(), conn.ConnectionToken())
	conn.Trace(log.DebugLevel, "LP connect: %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	tracing.InjectHeaders(ctx, req.Header)
	conn.PrepareRequest(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connect: unexpected status %d", resp.StatusCode)
	}

	_, err = transport.ProcessResponse(conn, string(body), init.Received)
	return err
}

// LostConnection is called by the owning connection when it suspects
// staleness. If the reconnecting transition is accepted, the engine is told
// connectivity was lost so it can force a fresh poll.
func (t *Transport) LostConnection(conn transport.Connection) {
	h := t.handler.Load()
	if h == nil {
		return
	}
	if transport.EnsureReconnecting(conn) {
		h.engine.LostConnection()
	}
}

// Abort stops the transport cooperatively: the first caller initiates the
// abort and notifies the server, the poll loop honors it at the next cycle
// boundary, and every caller waits for the same completion. Aborting a
// transport that never started is a no-op.
func (t *Transport) Abort(ctx context.Context, conn transport.Connection) error {
	h := t.handler.Load()
	if h == nil {
		return nil
	}
	if h.abort.Request() {
		t.notifyAbort(ctx, conn, h.urls)
	}
	return h.abort.Wait(ctx)
}

// notifyAbort tells the server the connection is going away. Best effort: the
// local teardown does not depend on it.
func (t *Transport) notifyAbort(ctx context.Context, conn transport.Connection, b *urls.Builder) {
	u := b.Abort(t.Name(), conn.ConnectionToken())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	conn.PrepareRequest(req)
	resp, err := t.client.Do(req)
	if err != nil {
		conn.Trace(log.DebugLevel, "LP abort notify failed: %v", err)
		return
	}
	resp.Body.Close()
}
