package cli

import (
	"time"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"

	"github.com/sdejongh/exporter/pkg/config"
	"github.com/sdejongh/exporter/pkg/models"
	"github.com/sdejongh/exporter/pkg/prefs"
)

// validateExportFlags checks the flags that config validation does not cover
func validateExportFlags(flags *ExportFlags) error {
	validSummaryFormats := map[string]bool{"human": true, "json": true}
	if !validSummaryFormats[flags.SummaryFormat] {
		return errors.Errorf("invalid summary format: %s (valid: human, json)", flags.SummaryFormat)
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config, flags *ExportFlags) {
	if flags.Duplicate != "" {
		cfg.Export.Duplicate = models.DuplicateMode(flags.Duplicate)
	}

	if len(flags.Ext) > 0 {
		cfg.Export.Extensions = flags.Ext
	}

	if len(flags.Exclude) > 0 {
		cfg.Export.Exclude = flags.Exclude
	}

	if flags.Bandwidth != "" {
		cfg.Performance.Bandwidth = flags.Bandwidth
	}

	if flags.Output != "" {
		cfg.Output.Format = flags.Output
	}

	// An explicit log file turns logging on
	if flags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = flags.LogFile
	}
	if flags.LogFormat != "" {
		cfg.Logging.Format = flags.LogFormat
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// resolvePaths fills missing source and destination from the saved
// preferences. Paths still empty afterwards are rejected by the export.
func resolvePaths(flags *ExportFlags, store *prefs.Store) (string, string, error) {
	source, dest := flags.Source, flags.Dest
	if source != "" && dest != "" {
		return source, dest, nil
	}

	saved, err := store.Load()
	if err != nil {
		return "", "", err
	}
	if source == "" {
		source = saved.Source
	}
	if dest == "" {
		dest = saved.Destination
	}
	return source, dest, nil
}

// createExportRequest creates an export request with a fresh run ID
func createExportRequest(source, dest string, dryRun bool) models.ExportRequest {
	return models.ExportRequest{
		ID:        uuid.New().String(),
		SourceDir: source,
		DestDir:   dest,
		DryRun:    dryRun,
		CreatedAt: time.Now(),
	}
}
