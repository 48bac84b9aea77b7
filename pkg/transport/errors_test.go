package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiationErrorUnwraps(t *testing.T) {
	cause := errors.New("dial refused")
	err := &NegotiationError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "negotiation failed")

	var negErr *NegotiationError
	assert.ErrorAs(t, fmt.Errorf("start: %w", err), &negErr)
}

func TestStartErrorUnwraps(t *testing.T) {
	cause := errors.New("connect: unexpected status 500")
	err := &StartError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "start failed")
}

func TestIsRequestAborted(t *testing.T) {
	assert.True(t, IsRequestAborted(context.Canceled))
	assert.True(t, IsRequestAborted(net.ErrClosed))
	assert.True(t, IsRequestAborted(fmt.Errorf("poll: %w", context.Canceled)))

	assert.False(t, IsRequestAborted(nil))
	assert.False(t, IsRequestAborted(context.DeadlineExceeded))
	assert.False(t, IsRequestAborted(errors.New("boom")))
}

func TestIsIOInterrupted(t *testing.T) {
	assert.True(t, IsIOInterrupted(io.EOF))
	assert.True(t, IsIOInterrupted(io.ErrUnexpectedEOF))
	assert.True(t, IsIOInterrupted(syscall.ECONNRESET))
	assert.True(t, IsIOInterrupted(syscall.EPIPE))
	assert.True(t, IsIOInterrupted(&net.OpError{Op: "read", Err: syscall.ECONNRESET}))

	assert.False(t, IsIOInterrupted(nil))
	assert.False(t, IsIOInterrupted(errors.New("boom")))
}

func TestEnsureReconnecting(t *testing.T) {
	conn := newRecordConn()
	assert.True(t, EnsureReconnecting(conn), "connected transitions")
	assert.Equal(t, StateReconnecting, conn.State())

	assert.True(t, EnsureReconnecting(conn), "already reconnecting counts")

	conn.state.Store(int32(StateDisconnected))
	assert.False(t, EnsureReconnecting(conn), "disconnected never reconnects")
	assert.Equal(t, StateDisconnected, conn.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "reconnecting", StateReconnecting.String())
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "unknown", State(99).String())
}
