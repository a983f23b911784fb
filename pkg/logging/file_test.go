package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestFileLogger(t *testing.T, config FileLoggerConfig) *FileLogger {
	t.Helper()

	if config.Path == "" {
		config.Path = filepath.Join(t.TempDir(), "test.log")
	}
	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 20, 30, 0, time.UTC)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestNewFileLogger(t *testing.T) {
	t.Run("CreatesFile", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "test.log")
		newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText})

		if _, err := os.Stat(logPath); os.IsNotExist(err) {
			t.Error("Log file was not created")
		}
	})

	t.Run("CreatesDirectory", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")
		newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText})

		if _, err := os.Stat(filepath.Dir(logPath)); os.IsNotExist(err) {
			t.Error("Log directory was not created")
		}
	})

	t.Run("AppendsToExistingFile", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logPath, []byte("previous run\n"), 0644); err != nil {
			t.Fatalf("failed to seed log: %v", err)
		}

		logger := newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText})
		logger.Info(context.Background(), "next run", nil)
		logger.Close()

		content := readLog(t, logPath)
		if !strings.HasPrefix(content, "previous run\n") {
			t.Errorf("existing content was not preserved:\n%s", content)
		}
		if !strings.Contains(content, "next run") {
			t.Errorf("new entry missing:\n%s", content)
		}
	})
}

func TestFileLogger_TextFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger := newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	ctx := context.Background()

	logger.Info(ctx, "file copied", Fields{"file": "a.txt", "bytes": 12})
	logger.Warn(ctx, "skipped", nil)
	logger.Error(ctx, "copy failed", errors.New("disk full"), Fields{"file": "b.sql"})
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), strings.Join(lines, "\n"))
	}

	want := []string{
		`2025-06-01T10:20:30.000Z [INFO] file copied bytes=12 file=a.txt`,
		`2025-06-01T10:20:30.000Z [WARNING] skipped`,
		`2025-06-01T10:20:30.000Z [ERROR] copy failed error="disk full" file=b.sql`,
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger := newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText, Level: WarnLevel})
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	logger.Close()

	content := readLog(t, logPath)
	if strings.Contains(content, "debug message") || strings.Contains(content, "info message") {
		t.Errorf("entries below the minimum level were written:\n%s", content)
	}
	if !strings.Contains(content, "warn message") || !strings.Contains(content, "error message") {
		t.Errorf("entries at or above the minimum level are missing:\n%s", content)
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger := newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatJSON})

	logger.Error(context.Background(), "copy failed", errors.New("boom"), Fields{"file": "a.txt"})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("failed to parse JSON log entry: %v", err)
	}

	expected := map[string]string{
		"level":     "ERROR",
		"message":   "copy failed",
		"error":     "boom",
		"file":      "a.txt",
		"timestamp": "2025-06-01T10:20:30Z",
	}
	for k, v := range expected {
		if entry[k] != v {
			t.Errorf("entry[%s] = %v, want %s", k, entry[k], v)
		}
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger := newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText})
	ctx := context.Background()

	child := logger.WithFields(Fields{"run_id": "r1"})
	child.Info(ctx, "from child", Fields{"file": "a.txt"})
	logger.Info(ctx, "from parent", nil)

	// Closing the child closes the shared file
	if err := child.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	logger.Info(ctx, "after close", nil)

	content := readLog(t, logPath)
	if !strings.Contains(content, "from child file=a.txt run_id=r1") {
		t.Errorf("child entry missing inherited field:\n%s", content)
	}
	if strings.Contains(content, "from parent run_id") {
		t.Errorf("parent entry should not carry child fields:\n%s", content)
	}
	if strings.Contains(content, "after close") {
		t.Errorf("entry written after close:\n%s", content)
	}
}

func TestFileLogger_MultilineMessage(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger := newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText})

	logger.Info(context.Background(), "line one\nline two", nil)
	logger.Close()

	content := readLog(t, logPath)
	if strings.Count(content, "\n") != 1 {
		t.Errorf("multiline message spans several lines:\n%s", content)
	}
	if !strings.Contains(content, "line one | line two") {
		t.Errorf("content = %q", content)
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger := newTestFileLogger(t, FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		MaxSize:    100,
		MaxBackups: 2,
	})
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		logger.Info(ctx, "a fairly long message that fills the log file quickly", Fields{"i": i})
	}
	logger.Close()

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("first backup missing: %v", err)
	}
	if _, err := os.Stat(logPath + ".2"); err != nil {
		t.Errorf("second backup missing: %v", err)
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARNING"},
		{ErrorLevel, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := LevelString(tt.level); got != tt.want {
				t.Errorf("LevelString(%v) = %s, want %s", tt.level, got, tt.want)
			}
		})
	}
}
