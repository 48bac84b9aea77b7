package longpolling

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortGateSingleInitiator(t *testing.T) {
	g := newAbortGate()

	assert.True(t, g.Request())
	assert.False(t, g.Request(), "second request must not re-initiate")
	assert.True(t, g.Pending())

	g.Complete()
	assert.True(t, g.Completed())
	assert.False(t, g.Pending())
	assert.False(t, g.Request(), "request after completion observes completion")
}

func TestAbortGateConcurrentRequests(t *testing.T) {
	g := newAbortGate()

	const callers = 32
	var initiators atomic.Int32
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if g.Request() {
				initiators.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), initiators.Load())
}

func TestAbortGateWaitUnblocksAllWaiters(t *testing.T) {
	g := newAbortGate()
	require.True(t, g.Request())

	const waiters = 8
	errs := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			errs <- g.Wait(ctx)
		}()
	}

	g.Complete()
	g.Complete() // idempotent

	for i := 0; i < waiters; i++ {
		assert.NoError(t, <-errs)
	}
}

func TestAbortGateWaitHonorsContext(t *testing.T) {
	g := newAbortGate()
	require.True(t, g.Request())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAbortGateCompleteWithoutRequest(t *testing.T) {
	// The disconnect path completes a never-requested gate so a later abort
	// returns immediately.
	g := newAbortGate()
	g.Complete()

	assert.False(t, g.Request())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, g.Wait(ctx))
}
