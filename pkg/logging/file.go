package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gitlab.com/tozd/go/errors"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// fileSink is the append-only file shared by a logger and its WithFields children
type fileSink struct {
	config FileLoggerConfig

	mu   sync.Mutex
	file *os.File
	size int64
}

// FileLogger implements Logger with append-only file output
type FileLogger struct {
	sink   *fileSink
	fields Fields
	now    func() time.Time
}

// NewFileLogger creates a new file logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, errors.Errorf("failed to create log directory: %w", err)
	}

	sink := &fileSink{config: config}
	if err := sink.open(); err != nil {
		return nil, err
	}

	return &FileLogger{sink: sink, now: time.Now}, nil
}

// Debug logs a debug message
func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields writing to the same file
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{
		sink:   l.sink,
		fields: mergeFields(l.fields, fields),
		now:    l.now,
	}
}

// Close flushes and closes the log file
func (l *FileLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.sink.config.Level {
		return
	}

	all := mergeFields(l.fields, fields)
	ts := l.now().UTC()

	var line []byte
	if l.sink.config.Format == FormatJSON {
		line = formatJSON(ts, level, msg, err, all)
	} else {
		line = formatText(ts, level, msg, err, all)
	}
	if line == nil {
		return
	}

	l.sink.write(line)
}

// formatJSON formats a log entry as a JSON object
func formatJSON(ts time.Time, level Level, msg string, err error, fields Fields) []byte {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["timestamp"] = ts.Format(time.RFC3339Nano)
	entry["level"] = levelString(level)
	entry["message"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil
	}
	return append(data, '\n')
}

// formatText formats a log entry as "timestamp [LEVEL] message key=value ..."
func formatText(ts time.Time, level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(ts.Format("2006-01-02T15:04:05.000Z"))
	b.WriteString(" [")
	b.WriteString(levelString(level))
	b.WriteString("] ")
	b.WriteString(strings.ReplaceAll(msg, "\n", " | "))

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

func (s *fileSink) open() error {
	file, err := os.OpenFile(s.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return errors.Errorf("failed to stat log file: %w", err)
	}

	s.file = file
	s.size = info.Size()
	return nil
}

func (s *fileSink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return
	}
	if s.config.MaxSize > 0 && s.size >= s.config.MaxSize {
		s.rotate()
		if s.file == nil {
			return
		}
	}

	n, _ := s.file.Write(line)
	s.size += int64(n)
}

// rotate shifts path -> path.1 -> path.2 ... keeping MaxBackups files;
// the caller holds mu
func (s *fileSink) rotate() {
	s.file.Close()
	s.file = nil

	path := s.config.Path
	if s.config.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", path, s.config.MaxBackups))
		for i := s.config.MaxBackups - 1; i >= 1; i-- {
			os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
		}
		os.Rename(path, path+".1")
	} else {
		os.Remove(path)
	}

	_ = s.open()
}
