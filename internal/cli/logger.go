package cli

import (
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/sdejongh/exporter/pkg/config"
	"github.com/sdejongh/exporter/pkg/logging"
)

// createLogger builds the run logger: the audit file when logging is
// enabled, plus a console mirror on stderr in verbose mode
func createLogger(cfg config.LoggingConfig, verbose bool, stderr io.Writer) (logging.Logger, error) {
	var loggers []logging.Logger

	if cfg.Enabled {
		path := cfg.File
		if path == "" {
			var err error
			path, err = config.DefaultLogPath()
			if err != nil {
				return nil, err
			}
		}

		format := logging.FormatText
		if cfg.Format == "json" {
			format = logging.FormatJSON
		}

		fileLogger, err := logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       path,
			Format:     format,
			Level:      logging.ParseLevel(cfg.Level),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
		})
		if err != nil {
			return nil, errors.Errorf("failed to create logger: %w", err)
		}
		loggers = append(loggers, fileLogger)
	}

	if verbose {
		loggers = append(loggers, logging.NewConsoleLogger(stderr, logging.DebugLevel))
	}

	return logging.NewMultiLogger(loggers...), nil
}
