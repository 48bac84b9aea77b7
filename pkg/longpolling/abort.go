package longpolling

import (
	"context"
	"sync/atomic"
)

const (
	abortIdle int32 = iota
	abortRequested
	abortCompleted
)

// abortGate coordinates the cooperative abort protocol: exactly one caller
// initiates the abort, the poll loop acknowledges it at the next cycle
// boundary, and every waiter (including later abort requests) observes the
// same completion.
type abortGate struct {
	state atomic.Int32
	done  chan struct{}
}

func newAbortGate() *abortGate {
	return &abortGate{done: make(chan struct{})}
}

// Request marks the abort as pending and reports whether this caller
// initiated it. Once completed, Request always returns false.
func (g *abortGate) Request() bool {
	return g.state.CompareAndSwap(abortIdle, abortRequested)
}

// Pending reports whether an abort was requested and not yet completed.
func (g *abortGate) Pending() bool {
	return g.state.Load() == abortRequested
}

// Complete marks the abort finished and releases all waiters. It also
// completes a never-requested gate so that an abort requested after the
// transport already stopped (e.g. via the disconnect signal) observes
// completion immediately. Idempotent.
func (g *abortGate) Complete() {
	for {
		s := g.state.Load()
		if s == abortCompleted {
			return
		}
		if g.state.CompareAndSwap(s, abortCompleted) {
			close(g.done)
			return
		}
	}
}

// Completed reports whether the gate has completed.
func (g *abortGate) Completed() bool {
	return g.state.Load() == abortCompleted
}

// Wait blocks until the abort completes or ctx is done.
func (g *abortGate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
