package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ServiceName != "peercore" {
		t.Errorf("expected service name 'peercore', got '%s'", cfg.ServiceName)
	}
	if cfg.JaegerURL != "http://localhost:14268/api/traces" {
		t.Errorf("unexpected Jaeger URL: %s", cfg.JaegerURL)
	}
	if cfg.SampleRate != 0.1 {
		t.Errorf("expected sample rate 0.1, got %f", cfg.SampleRate)
	}
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	// Tracing disabled (no tracer provider registered): StartSpan still
	// returns a usable no-op span.
	ctx, span := StartSpan(ctx, "test.operation")
	if span == nil {
		t.Error("expected non-nil span")
	}
	span.End()
}

func TestAddSpanAttributes(t *testing.T) {
	ctx := context.Background()
	ctx, span := StartSpan(ctx, "test")
	defer span.End()

	AddSpanAttributes(ctx,
		attribute.String("test.key", "test.value"),
		attribute.Int("test.number", 42),
	)
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()
	ctx, span := StartSpan(ctx, "test")
	defer span.End()

	err := &testError{message: "test error"}
	RecordError(ctx, err)
}

func TestMeasureDuration(t *testing.T) {
	ctx := context.Background()
	ctx, span := StartSpan(ctx, "test")
	defer span.End()

	start := time.Now()
	time.Sleep(10 * time.Millisecond)
	MeasureDuration(ctx, start, "test.operation")
}

func TestTraceRequest(t *testing.T) {
	ctx := context.Background()
	ctx, span := TraceRequest(ctx, "PEER_CREATE_TRANSPORT", 1)
	if span == nil {
		t.Error("expected non-nil span")
	}
	span.End()
}

func TestTraceChannelMessage(t *testing.T) {
	ctx := context.Background()
	ctx, span := TraceChannelMessage(ctx, "request", 1)
	if span == nil {
		t.Error("expected non-nil span")
	}
	span.End()
}

type testError struct {
	message string
}

func (e *testError) Error() string {
	return e.message
}
