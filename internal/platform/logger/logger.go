package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	fieldRequestID = "request_id"
	fieldTxHash    = "tx_hash"
)

// newLogger builds a production zap Logger carrying the request ID from the
// Context, if any.
func newLogger(ctx context.Context) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		// zap only fails to build on invalid config, which ours is not.
		logger = zap.NewNop()
	}

	if v := ctx.Value(KeyRequestID); v != nil {
		logger = logger.With(zap.String(fieldRequestID, v.(string)))
	}

	return logger
}

// FromContext returns the Logger stored in the Context, or a fresh one when
// the Context carries none.
func FromContext(ctx context.Context) *zap.Logger {
	v := ctx.Value(KeyLogger)
	if v == nil {
		return newLogger(ctx)
	}

	return v.(*zap.Logger)
}

// Info logs at info level using the Context's Logger.
func Info(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Sugar().Infof(format, args...)
}

// Warn logs at warn level using the Context's Logger.
func Warn(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Sugar().Warnf(format, args...)
}

// Error logs at error level using the Context's Logger.
func Error(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Sugar().Errorf(format, args...)
}

// Verbose logs at debug level using the Context's Logger.
func Verbose(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Sugar().Debugf(format, args...)
}

// Elapsed logs the time since start. Use with defer to time an operation.
func Elapsed(ctx context.Context, start time.Time, message string) {
	FromContext(ctx).Info(message,
		zap.Float64("elapsed_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond)))
}
