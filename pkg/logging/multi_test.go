package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type recordingLogger struct {
	NullLogger
	messages []string
	closeErr error
}

func (r *recordingLogger) Info(ctx context.Context, msg string, fields Fields) {
	r.messages = append(r.messages, msg)
}

func (r *recordingLogger) Close() error {
	return r.closeErr
}

func TestNewMultiLogger(t *testing.T) {
	t.Run("NoLoggers", func(t *testing.T) {
		if _, ok := NewMultiLogger(nil, nil).(*NullLogger); !ok {
			t.Error("NewMultiLogger() with no loggers should return a NullLogger")
		}
	})

	t.Run("SingleLogger", func(t *testing.T) {
		r := &recordingLogger{}
		if got := NewMultiLogger(nil, r); got != Logger(r) {
			t.Error("NewMultiLogger() with one logger should return it unwrapped")
		}
	})
}

func TestMultiLogger_FanOut(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{closeErr: errors.New("close failed")}
	logger := NewMultiLogger(a, b)

	logger.Info(context.Background(), "hello", nil)

	if len(a.messages) != 1 || len(b.messages) != 1 {
		t.Errorf("messages = %v / %v, want one each", a.messages, b.messages)
	}
	if err := logger.Close(); err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Errorf("Close() error = %v, want joined close error", err)
	}
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: toSlogLevel(InfoLevel)})
	logger := NewSlogLogger(slog.New(handler)).WithFields(Fields{"run_id": "r1"})
	ctx := context.Background()

	logger.Debug(ctx, "hidden", nil)
	logger.Info(ctx, "file copied", Fields{"file": "a.txt"})
	logger.Error(ctx, "copy failed", errors.New("boom"), nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry should be filtered:\n%s", out)
	}
	for _, want := range []string{"file copied", "file=a.txt", "run_id=r1", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, WarnLevel)
	ctx := context.Background()

	logger.Info(ctx, "quiet", nil)
	logger.Warn(ctx, "duplicate skipped", Fields{"file": "a.txt"})

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info entry should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "duplicate skipped") || !strings.Contains(out, "file=a.txt") {
		t.Errorf("output = %q", out)
	}
	// A bytes.Buffer is never a terminal, so no ANSI escapes are emitted
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output contains colour codes: %q", out)
	}
}
