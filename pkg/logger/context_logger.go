package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogger attaches trace/peer identifiers carried on a context to
// every log line it emits, so a single request's log lines can be
// correlated without threading a *zap.Logger through every call.
type ContextLogger struct {
	logger *zap.Logger
}

func NewContextLogger(logger *zap.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

type contextKey string

const (
	TraceIDKey contextKey = "trace_id"
	PeerIDKey  contextKey = "peer_id"
)

// WithContext returns a logger annotated with the trace and peer ids found
// on ctx, if any.
func (cl *ContextLogger) WithContext(ctx context.Context) *zap.Logger {
	fields := []zapcore.Field{}

	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	if peerID, ok := ctx.Value(PeerIDKey).(uint32); ok {
		fields = append(fields, zap.Uint32("peer_id", peerID))
	}

	if len(fields) == 0 {
		return cl.logger
	}
	return cl.logger.With(fields...)
}

// LogControlRequest logs the outcome of a single Peer control-plane request.
func (cl *ContextLogger) LogControlRequest(ctx context.Context, methodID string, outcome string, durationMs int64) {
	cl.WithContext(ctx).Info("control_request",
		zap.String("method_id", methodID),
		zap.String("outcome", outcome),
		zap.Int64("duration_ms", durationMs),
	)
}

// LogError logs an error with any trace/peer context attached.
func (cl *ContextLogger) LogError(ctx context.Context, err error, message string, fields ...zapcore.Field) {
	allFields := append(fields, zap.Error(err))
	cl.WithContext(ctx).Error(message, allFields...)
}
