package logger

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// global is the logger used when a context carries none.
	//nolint:gochecknoglobals // Every package logs through it.
	global *zap.SugaredLogger
	// level is shared by global and every logger derived from it, so
	// --log-level applies to loggers already stored in contexts.
	//nolint:gochecknoglobals // Set once from the CLI.
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // Packages log before the CLI parses flags.
	SetLogger(New(level))
}

// New creates a console logger writing to stderr.
// Stdout is left to instrument responses so that output stays pipeable.
// A nil level falls back to the shared level.
func New(enabler zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	return NewWithOutput(zapcore.Lock(os.Stderr), enabler, options...)
}

// NewWithOutput creates a console logger writing to out.
func NewWithOutput(out zapcore.WriteSyncer, enabler zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if enabler == nil {
		enabler = level
	}

	//nolint:exhaustruct // Remaining encoder keys stay disabled.
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "message",
		LevelKey:         "level",
		NameKey:          "logger",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})

	return zap.New(zapcore.NewCore(encoder, out, enabler), options...).Sugar()
}

// ParseLogLevel converts a --log-level value, in any case, to a zap level.
// Unknown values return InfoLevel and false.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return parsed, true
}

// Level returns the shared log level.
func Level() zapcore.Level {
	return level.Level()
}

// SetLevel changes the shared log level.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return global
}

// SetLogger replaces the global logger. It is not safe for concurrent use
// with logging calls.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// Debug logs args at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Log(zapcore.DebugLevel, args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Logf(zapcore.DebugLevel, format, args...)
}

// DebugKV logs message with key-value pairs at debug level.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Logw(zapcore.DebugLevel, message, kvs...)
}

// Info logs args at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Log(zapcore.InfoLevel, args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Logf(zapcore.InfoLevel, format, args...)
}

// InfoKV logs message with key-value pairs at info level.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Logw(zapcore.InfoLevel, message, kvs...)
}

// Warn logs args at warn level.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Log(zapcore.WarnLevel, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Logf(zapcore.WarnLevel, format, args...)
}

// WarnKV logs message with key-value pairs at warn level.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Logw(zapcore.WarnLevel, message, kvs...)
}

// Error logs args at error level.
func Error(ctx context.Context, args ...any) {
	FromContext(ctx).Log(zapcore.ErrorLevel, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Logf(zapcore.ErrorLevel, format, args...)
}

// ErrorKV logs message with key-value pairs at error level.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Logw(zapcore.ErrorLevel, message, kvs...)
}
