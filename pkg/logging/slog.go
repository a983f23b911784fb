package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// SlogLogger adapts a *slog.Logger to Logger
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing slog logger
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewConsoleLogger writes colourised lines to w through a tint handler.
// Colour is disabled when w is not a terminal.
func NewConsoleLogger(w io.Writer, level Level) *SlogLogger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      toSlogLevel(level),
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	})
	return NewSlogLogger(slog.New(handler))
}

func (l *SlogLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs(nil, fields)...)
}

func (l *SlogLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs(nil, fields)...)
}

func (l *SlogLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs(nil, fields)...)
}

func (l *SlogLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.logger.LogAttrs(ctx, slog.LevelError, msg, attrs(err, fields)...)
}

// WithFields returns a logger with additional fields
func (l *SlogLogger) WithFields(fields Fields) Logger {
	args := make([]any, 0, len(fields))
	for _, a := range attrs(nil, fields) {
		args = append(args, a)
	}
	return &SlogLogger{logger: l.logger.With(args...)}
}

// Close does nothing; the underlying writer is owned by the caller
func (l *SlogLogger) Close() error {
	return nil
}

func attrs(err error, fields Fields) []slog.Attr {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]slog.Attr, 0, len(fields)+1)
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	if err != nil {
		out = append(out, tint.Err(err))
	}
	return out
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
