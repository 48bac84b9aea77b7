package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const traceHeaderKey = "X-Trace-Id"

var propagator = propagation.TraceContext{}

// InjectHeaders injects tracing context into outbound HTTP headers.
func InjectHeaders(ctx context.Context, h http.Header) http.Header {
	if h == nil {
		h = http.Header{}
	}
	propagator.Inject(ctx, propagation.HeaderCarrier(h))
	if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
		h.Set(traceHeaderKey, span.SpanContext().TraceID().String())
	}
	return h
}

// ExtractHeaders extracts tracing context from inbound HTTP headers.
func ExtractHeaders(ctx context.Context, h http.Header) context.Context {
	if h == nil {
		return ctx
	}
	ctx = propagator.Extract(ctx, propagation.HeaderCarrier(h))
	if traceID := h.Get(traceHeaderKey); traceID != "" {
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String("x-trace-id", traceID))
	}
	return ctx
}

// Tracer returns named tracer for transport components.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
