package longpolling

import (
	"net/http"
	"sync/atomic"
	"time"

	log "github.com/Goden-Gun/longpoll-lib/pkg/logger"
	"github.com/Goden-Gun/longpoll-lib/pkg/poller"
	"github.com/Goden-Gun/longpoll-lib/pkg/tracing"
	"github.com/Goden-Gun/longpoll-lib/pkg/transport"
	"github.com/Goden-Gun/longpoll-lib/pkg/urls"
)

// pollHandler is the callback set bound to one engine instance per Start.
// It translates poll cycle outcomes into connection state transitions and
// drives the per-episode reconnect Invoker. It is never rebound mid-lifetime.
type pollHandler struct {
	t    *Transport
	conn transport.Connection
	urls *urls.Builder

	engine *poller.Poller

	// reconnectInvoker holds the current episode's invoker. A fresh one is
	// swapped in after every poll cycle, so triggers left over from a prior
	// episode land on an orphaned invoker.
	reconnectInvoker atomic.Pointer[Invoker]

	abort *abortGate

	// disconnectWatch holds the release function of the disconnect-signal
	// registration. Published by Start while the signal can already be firing
	// the engine's callbacks, so the handoff must be atomic.
	disconnectWatch atomic.Pointer[func() bool]

	// reconnectTimer is the pending delayed-confirmation timer, stopped on
	// abort so no wakeups outlive the engine.
	reconnectTimer atomic.Pointer[time.Timer]
}

func newPollHandler(t *Transport, conn transport.Connection, b *urls.Builder) *pollHandler {
	h := &pollHandler{
		t:     t,
		conn:  conn,
		urls:  b,
		abort: newAbortGate(),
	}
	h.reconnectInvoker.Store(NewInvoker())
	return h
}

func (h *pollHandler) invoker() *Invoker {
	return h.reconnectInvoker.Load()
}

// setDisconnectWatch publishes the disconnect-signal release function. If the
// engine already stopped before the watch was published, onAbort has run and
// could not release it, so release here; stop is idempotent.
func (h *pollHandler) setDisconnectWatch(stop func() bool) {
	h.disconnectWatch.Store(&stop)
	if h.abort.Completed() {
		stop()
	}
}

func (h *pollHandler) callbacks() poller.Callbacks {
	return poller.Callbacks{
		OnMessage:      h.onMessage,
		OnError:        h.onError,
		OnPolling:      h.onPolling,
		OnAfterPoll:    h.afterPoll,
		OnAbort:        h.onAbort,
		ResolveURL:     h.resolveURL,
		PrepareRequest: h.prepareRequest,
	}
}

func (h *pollHandler) resolveURL() string {
	if h.conn.State() == transport.StateReconnecting {
		u := h.urls.Reconnect(h.t.Name(), h.conn.ConnectionToken(), h.conn.MessageID(), h.conn.GroupsToken())
		h.conn.Trace(log.DebugLevel, "LP reconnect: %s", u)
		return u
	}
	u := h.urls.Poll(h.t.Name(), h.conn.ConnectionToken(), h.conn.MessageID())
	h.conn.Trace(log.DebugLevel, "LP poll: %s", u)
	return u
}

func (h *pollHandler) prepareRequest(req *http.Request) {
	tracing.InjectHeaders(req.Context(), req.Header)
	h.conn.PrepareRequest(req)
}

func (h *pollHandler) onMessage(body string) {
	if h.conn.State() == transport.StateReconnecting {
		// Data arrived before the delayed reconnect timer. Fire here so
		// observers see the reconnected transition ahead of any message in
		// this batch.
		h.invoker().Invoke(h.fireReconnected)
	}

	shouldReconnect, err := transport.ProcessResponse(h.conn, body, nil)
	if err != nil {
		h.conn.OnError(err)
		return
	}
	if shouldReconnect {
		transport.EnsureReconnecting(h.conn)
	}
}

// fireReconnected requests the Reconnecting -> Connected transition. The CAS
// precondition makes this a no-op, with no notification, when the state
// already moved elsewhere.
func (h *pollHandler) fireReconnected() {
	if h.conn.ChangeState(transport.StateReconnecting, transport.StateConnected) {
		h.conn.OnReconnected()
	}
}

func (h *pollHandler) onError(err error) {
	// Consume the episode without confirming reconnection.
	h.invoker().Invoke(nil)

	if !h.conn.VerifyLastActive() {
		// Not worth retrying anymore.
		h.engine.Stop()
	}

	transport.EnsureReconnecting(h.conn)

	if !transport.IsRequestAborted(err) && !transport.IsIOInterrupted(err) {
		h.conn.OnError(err)
	}
}

func (h *pollHandler) onPolling() {
	if h.conn.State() != transport.StateReconnecting {
		return
	}
	// Fallback confirmation for episodes where no message arrives: after the
	// reconnect delay, confirm if still reconnecting. The invoker is captured
	// now; if the episode has moved on by the time the timer fires, the
	// orphaned invoker makes the timer inert.
	inv := h.invoker()
	timer := time.AfterFunc(h.t.ReconnectDelay(), func() {
		if h.conn.State() == transport.StateReconnecting {
			inv.Invoke(h.fireReconnected)
		}
	})
	if old := h.reconnectTimer.Swap(timer); old != nil {
		old.Stop()
	}
}

func (h *pollHandler) afterPoll(err error) poller.Directive {
	if h.abort.Pending() {
		h.engine.Stop()
		return poller.Directive{Stop: true}
	}

	// Fresh episode for the next cycle.
	h.reconnectInvoker.Store(NewInvoker())

	if err != nil {
		return poller.Directive{Delay: h.t.ErrorDelay()}
	}
	return poller.Directive{}
}

func (h *pollHandler) onAbort() {
	if stop := h.disconnectWatch.Load(); stop != nil {
		(*stop)()
	}
	if timer := h.reconnectTimer.Swap(nil); timer != nil {
		timer.Stop()
	}
	h.abort.Complete()
}
