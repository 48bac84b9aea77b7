package longpolling

import "sync/atomic"

// Invoker runs at most one action across its lifetime. A new Invoker is
// armed; the first Invoke call wins and runs its action, every later call is
// a silent no-op. Safe for concurrent use without external locking.
//
// One Invoker scopes one reconnect episode: competing triggers (an inbound
// message, the delayed reconnect timer, a poll error, the disconnect signal)
// all race through the same Invoker, so exactly one of them decides the
// episode's outcome. There is no disarm; a new episode simply constructs a
// new Invoker and orphans the old one.
type Invoker struct {
	fired atomic.Bool
}

// NewInvoker returns an armed invoker.
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Invoke fires the invoker. The winning call runs action (which may be nil to
// consume the episode without acting) and returns true; every other call
// returns false without side effects.
func (i *Invoker) Invoke(action func()) bool {
	if !i.fired.CompareAndSwap(false, true) {
		return false
	}
	if action != nil {
		action()
	}
	return true
}

// Fired reports whether the invoker has been consumed.
func (i *Invoker) Fired() bool {
	return i.fired.Load()
}
