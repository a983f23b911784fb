package logging

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// MultiLogger fans every entry out to several loggers, in order
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers; nil entries are dropped
func NewMultiLogger(loggers ...Logger) Logger {
	var kept []Logger
	for _, l := range loggers {
		if l != nil {
			kept = append(kept, l)
		}
	}
	switch len(kept) {
	case 0:
		return NewNullLogger()
	case 1:
		return kept[0]
	}
	return &MultiLogger{loggers: kept}
}

func (m *MultiLogger) Debug(ctx context.Context, msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Debug(ctx, msg, fields)
	}
}

func (m *MultiLogger) Info(ctx context.Context, msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Info(ctx, msg, fields)
	}
}

func (m *MultiLogger) Warn(ctx context.Context, msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Warn(ctx, msg, fields)
	}
}

func (m *MultiLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	for _, l := range m.loggers {
		l.Error(ctx, msg, err, fields)
	}
}

// WithFields applies the fields to every wrapped logger
func (m *MultiLogger) WithFields(fields Fields) Logger {
	children := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		children[i] = l.WithFields(fields)
	}
	return &MultiLogger{loggers: children}
}

// Close closes every wrapped logger and joins their errors
func (m *MultiLogger) Close() error {
	var errs []error
	for _, l := range m.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
