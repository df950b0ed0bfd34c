package logs

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // The package keeps one process-wide default logger, guarded by a mutex.
var (
	globalMutex  sync.RWMutex
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	globalLogger = New(globalLevel)
)

// New creates a console logger writing to stderr with colored level names.
// If level is nil, the package-wide default level is used.
func New(level zapcore.LevelEnabler) *zap.Logger {
	if level == nil {
		level = globalLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core)
}

// ParseLogLevel converts a textual log level into a zapcore.Level.
// It returns false (and InfoLevel) if the input is not a known level.
func ParseLogLevel(level string) (zapcore.Level, bool) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return parsed, true
}

// Logger returns the current package-wide logger.
func Logger() *zap.Logger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the package-wide logger.
func SetLogger(logger *zap.Logger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalLogger = logger
}

// Level returns the current package-wide log level.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// SetLevel changes the package-wide log level.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

type contextKey struct{}

// ToContext returns a copy of ctx carrying the given logger.
// Functions in this package prefer the context logger over the package-wide one,
// so callers can construct a logger explicitly and pass it by reference
// instead of mutating global state.
func ToContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried by ctx,
// falling back to the package-wide logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}

	return Logger()
}

func sugar(ctx context.Context) *zap.SugaredLogger {
	return FromContext(ctx).WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	sugar(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	sugar(ctx).Debugw(message, kvs...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	sugar(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	sugar(ctx).Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	sugar(ctx).Infow(message, kvs...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	sugar(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	sugar(ctx).Warnw(message, kvs...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	sugar(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	sugar(ctx).Errorw(message, kvs...)
}

// Fatal logs a message at fatal level and exits the process.
func Fatal(ctx context.Context, args ...any) {
	sugar(ctx).Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Fatalf(format, args...)
}
