package longpolling

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvokerRunsActionOnce(t *testing.T) {
	inv := NewInvoker()
	var calls int

	assert.True(t, inv.Invoke(func() { calls++ }))
	assert.False(t, inv.Invoke(func() { calls++ }))
	assert.False(t, inv.Invoke(func() { calls++ }))

	assert.Equal(t, 1, calls)
	assert.True(t, inv.Fired())
}

func TestInvokerNilActionConsumes(t *testing.T) {
	inv := NewInvoker()

	assert.True(t, inv.Invoke(nil))
	assert.True(t, inv.Fired())

	var calls int
	assert.False(t, inv.Invoke(func() { calls++ }))
	assert.Equal(t, 0, calls)
}

func TestInvokerConcurrentTriggersExactlyOnce(t *testing.T) {
	const goroutines = 64

	for round := 0; round < 100; round++ {
		inv := NewInvoker()
		var calls atomic.Int32
		var winners atomic.Int32

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(goroutines)
		for g := 0; g < goroutines; g++ {
			go func(g int) {
				defer wg.Done()
				<-start
				var action func()
				// Half the triggers carry an action, half consume only,
				// like the error/disconnect paths do.
				if g%2 == 0 {
					action = func() { calls.Add(1) }
				}
				if inv.Invoke(action) {
					winners.Add(1)
				}
			}(g)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), winners.Load(), "exactly one trigger wins")
		assert.LessOrEqual(t, calls.Load(), int32(1))
	}
}
