package config

import (
	"github.com/sdejongh/exporter/pkg/filter"
	"github.com/sdejongh/exporter/pkg/models"
	"github.com/sdejongh/exporter/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Export      ExportConfig      `yaml:"export"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ExportConfig holds the candidate selection and conflict settings
type ExportConfig struct {
	Extensions        []string             `yaml:"extensions"`
	Exclude           []string             `yaml:"exclude"`
	Duplicate         models.DuplicateMode `yaml:"duplicate"`           // "size" or "hash"
	MaxRenameAttempts int                  `yaml:"max_rename_attempts"` // Token regenerations before giving up
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize  int    `yaml:"buffer_size"`
	Bandwidth   string `yaml:"bandwidth"`    // e.g. "10MB", empty = unlimited
	PartialHash bool   `yaml:"partial_hash"` // Compare the first 256KB of large files before hashing them fully
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bar
	Color    bool   `yaml:"color"`    // Colourise human output
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds audit log settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	File       string `yaml:"file"`        // Empty = default state dir location
	Format     string `yaml:"format"`      // "text" or "json"
	Level      string `yaml:"level"`       // "debug", "info", "warning", "error"
	MaxSize    int64  `yaml:"max_size"`    // Bytes before rotation, 0 = never
	MaxBackups int    `yaml:"max_backups"` // Rotated files kept
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Extensions:        append([]string(nil), filter.DefaultExtensions...),
			Exclude:           []string{},
			Duplicate:         models.DuplicateSize,
			MaxRenameAttempts: 8,
		},
		Performance: PerformanceConfig{
			BufferSize:  65536,
			PartialHash: true,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Color:    true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Format:     "text",
			Level:      "info",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Export.Extensions) == 0 {
		return &models.ValidationError{
			Field:   "export.extensions",
			Message: "at least one extension is required",
		}
	}

	if c.Export.Duplicate != models.DuplicateSize && c.Export.Duplicate != models.DuplicateHash {
		return &models.ValidationError{
			Field:   "export.duplicate",
			Message: "must be 'size' or 'hash'",
		}
	}

	if c.Export.MaxRenameAttempts < 1 {
		return &models.ValidationError{
			Field:   "export.max_rename_attempts",
			Message: "must be at least 1",
		}
	}

	if _, err := filter.NewExcluder(c.Export.Exclude); err != nil {
		return &models.ValidationError{
			Field:   "export.exclude",
			Message: err.Error(),
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := ratelimit.ParseBandwidth(c.Performance.Bandwidth); err != nil {
		return &models.ValidationError{
			Field:   "performance.bandwidth",
			Message: err.Error(),
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warning', or 'error'",
		}
	}

	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "rotation settings cannot be negative",
		}
	}

	return nil
}
