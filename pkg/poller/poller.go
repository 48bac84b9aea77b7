// Package poller implements the repeating-request engine behind the long
// polling transport: a single serialized loop that issues one HTTP poll at a
// time and reports each cycle's outcome through an injected callback bundle.
package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/Goden-Gun/longpoll-lib/pkg/logger"
)

// Directive tells the engine what to do between two poll cycles.
type Directive struct {
	// Delay to wait before the next poll.
	Delay time.Duration
	// Stop ends the loop permanently.
	Stop bool
}

// Callbacks is the behavior bundle bound to one engine instance at
// construction. The engine invokes them from its loop goroutine, except
// OnAbort which runs on whichever goroutine calls Stop.
type Callbacks struct {
	// OnMessage receives the body of every successful poll.
	OnMessage func(body string)
	// OnError receives every failed poll's error.
	OnError func(err error)
	// OnPolling fires just before a poll cycle starts.
	OnPolling func()
	// OnAfterPoll fires after every cycle, successful or not, and returns
	// the directive for the next one.
	OnAfterPoll func(err error) Directive
	// OnAbort fires once when the engine honors a stop request.
	OnAbort func()

	// ResolveURL picks the URL for the next poll.
	ResolveURL func() string
	// PrepareRequest customizes the outbound request. May be nil.
	PrepareRequest func(req *http.Request)
}

// Poller issues poll requests in a single loop; cycles never overlap.
type Poller struct {
	client *http.Client
	cb     Callbacks

	ctx    context.Context
	cancel context.CancelFunc

	reqMu     sync.Mutex
	reqCancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
	running   atomic.Bool
	done      chan struct{}
}

// New builds an engine around the given HTTP client and callback bundle.
// ResolveURL is the only mandatory callback.
func New(client *http.Client, cb Callbacks) *Poller {
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		client: client,
		cb:     cb,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start launches the poll loop. Subsequent calls are no-ops.
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		p.running.Store(true)
		go p.loop()
	})
}

// Stop ends the loop permanently, cancels any in-flight poll, and fires
// OnAbort exactly once. Safe to call from any goroutine, including the
// engine's own callbacks.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.running.Store(false)
		p.cancel()
		p.abortRequest()
		if p.cb.OnAbort != nil {
			p.cb.OnAbort()
		}
	})
}

// LostConnection cancels the in-flight poll so a fresh one starts
// immediately. The canceled request surfaces as an aborted-request error.
func (p *Poller) LostConnection() {
	p.abortRequest()
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	return p.running.Load()
}

// Done is closed when the loop has fully exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) loop() {
	defer close(p.done)
	for {
		if p.ctx.Err() != nil {
			p.running.Store(false)
			return
		}
		err := p.poll()
		var d Directive
		if p.cb.OnAfterPoll != nil {
			d = p.cb.OnAfterPoll(err)
		}
		if d.Stop || p.ctx.Err() != nil {
			p.running.Store(false)
			return
		}
		if d.Delay > 0 {
			select {
			case <-time.After(d.Delay):
			case <-p.ctx.Done():
				return
			}
		}
	}
}

func (p *Poller) poll() error {
	if p.cb.OnPolling != nil {
		p.cb.OnPolling()
	}

	reqCtx, cancel := context.WithCancel(p.ctx)
	p.setRequestCancel(cancel)
	defer func() {
		p.setRequestCancel(nil)
		cancel()
	}()

	url := p.cb.ResolveURL()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, nil)
	if err != nil {
		return p.fail(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.cb.PrepareRequest != nil {
		p.cb.PrepareRequest(req)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return p.fail(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return p.fail(err)
	}
	if resp.StatusCode != http.StatusOK {
		return p.fail(fmt.Errorf("poller: unexpected status %d", resp.StatusCode))
	}

	if p.cb.OnMessage != nil {
		p.cb.OnMessage(string(body))
	}
	return nil
}

func (p *Poller) fail(err error) error {
	log.WithError(err).Debug("poll cycle failed")
	if p.cb.OnError != nil {
		p.cb.OnError(err)
	}
	return err
}

func (p *Poller) setRequestCancel(cancel context.CancelFunc) {
	p.reqMu.Lock()
	p.reqCancel = cancel
	p.reqMu.Unlock()
}

func (p *Poller) abortRequest() {
	p.reqMu.Lock()
	cancel := p.reqCancel
	p.reqMu.Unlock()
	if cancel != nil {
		cancel()
	}
}
