package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

var (
	// ErrInitHandlerRequired indicates Start was called without an
	// initialization handler.
	ErrInitHandlerRequired = errors.New("transport: initialization handler is required")

	// ErrTransportStarted indicates Start was called on a transport that
	// already started once. Transports are single-use.
	ErrTransportStarted = errors.New("transport: already started")
)

// NegotiationError wraps a failed negotiate exchange. The underlying cause is
// preserved for errors.Is/As; negotiation failures are never retried by the
// transport.
type NegotiationError struct {
	Err error
}

func (e *NegotiationError) Error() string {
	return "transport: negotiation failed: " + e.Err.Error()
}

func (e *NegotiationError) Unwrap() error { return e.Err }

// StartError wraps a failed initial connect request.
type StartError struct {
	Err error
}

func (e *StartError) Error() string {
	return "transport: start failed: " + e.Err.Error()
}

func (e *StartError) Unwrap() error { return e.Err }

// IsRequestAborted reports whether err stems from a client-initiated request
// abort. Aborted requests are expected noise during shutdown and reconnects
// and must not surface on the connection's error channel.
func IsRequestAborted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed)
}

// IsIOInterrupted reports whether err is a low-level I/O interruption, e.g. a
// half-delivered poll response cut off by a dying connection.
func IsIOInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
