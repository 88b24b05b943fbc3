package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/akolanti/ContentAPI/internal/config"
)

type Logger struct {
	inner *slog.Logger
}

func Init(isProd bool) {
	InitTo(os.Stdout, isProd)
}

// InitTo is Init with a chosen destination; the cli logs to stderr so
// stdout stays machine readable.
func InitTo(w io.Writer, isProd bool) {
	options := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	var handler slog.Handler
	if isProd {
		options.Level = config.LOG_LEVEL_PROD
		handler = slog.NewJSONHandler(w, options)

	} else {
		handler = slog.NewTextHandler(w, options)

	}
	newLogger := slog.New(handler)
	slog.SetDefault(newLogger)
}

func NewLogger(section string) *Logger {
	return &Logger{
		inner: slog.Default().With("component", section),
	}
}

// NewWithHandler builds a logger that does not touch the process default,
// so tests can capture what a component writes.
func NewWithHandler(handler slog.Handler, section string) *Logger {
	return &Logger{
		inner: slog.New(handler).With("component", section),
	}
}

// NewBufferLogger writes text records at debug level into w.
func NewBufferLogger(w io.Writer, section string) *Logger {
	return NewWithHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}), section)
}

// Discard drops everything.
func Discard() *Logger {
	return NewWithHandler(slog.NewTextHandler(io.Discard, nil), "discard")
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	l.inner.Log(context.Background(), level, msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		inner: l.inner.With(args...),
	}
}

// WithTrace attaches the trace id carried by ctx, if any.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		return l.With("traceId", trace)
	}
	return l
}
