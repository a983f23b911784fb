package output

import (
	"encoding/json"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/exporter/pkg/models"
)

// JSONFormatter writes a single JSON report when the run finishes, keeping
// stdout parseable for scripts
type JSONFormatter struct {
	writer io.Writer
}

// JSONReport is the machine-readable form of a RunSummary
type JSONReport struct {
	RunID       string            `json:"run_id,omitempty"`
	Source      string            `json:"source"`
	Destination string            `json:"destination"`
	DryRun      bool              `json:"dry_run"`
	Status      string            `json:"status"`
	ExitCode    int               `json:"exit_code"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	DurationMs  int64             `json:"duration_ms"`
	Stats       JSONStats         `json:"stats"`
	Files       []JSONFileOutcome `json:"files"`
}

// JSONStats holds the summary counters
type JSONStats struct {
	Copied      int    `json:"copied"`
	Simulated   int    `json:"simulated"`
	Skipped     int    `json:"skipped"`
	Errors      int    `json:"errors"`
	Renamed     int    `json:"renamed"`
	BytesCopied int64  `json:"bytes_copied"`
	Bytes       string `json:"bytes"`
}

// JSONFileOutcome describes what happened to one file
type JSONFileOutcome struct {
	Name        string `json:"name"`
	Outcome     string `json:"outcome"`
	Destination string `json:"destination,omitempty"`
	Renamed     bool   `json:"renamed,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
	Bytes       int64  `json:"bytes,omitempty"`
}

// NewJSONReport converts a summary
func NewJSONReport(s *models.RunSummary) JSONReport {
	files := make([]JSONFileOutcome, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		entry := JSONFileOutcome{
			Outcome:     string(o.Kind),
			Destination: o.DestPath,
			Renamed:     o.Renamed,
			Reason:      o.Reason,
			Error:       o.ErrorText(),
			Bytes:       o.BytesCopied,
		}
		if o.Candidate != nil {
			entry.Name = o.Candidate.Name
		}
		files = append(files, entry)
	}

	return JSONReport{
		RunID:       s.RunID,
		Source:      s.SourcePath,
		Destination: s.DestPath,
		DryRun:      s.DryRun,
		Status:      string(s.Status),
		ExitCode:    s.Status.ExitCode(),
		StartTime:   s.StartTime.Format(time.RFC3339),
		EndTime:     s.EndTime.Format(time.RFC3339),
		DurationMs:  s.Duration().Milliseconds(),
		Stats: JSONStats{
			Copied:      s.Copied,
			Simulated:   s.Simulated,
			Skipped:     s.Skipped,
			Errors:      s.Errors,
			Renamed:     s.Renamed,
			BytesCopied: s.BytesCopied,
			Bytes:       humanize.IBytes(uint64(s.BytesCopied)),
		},
		Files: files,
	}
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Started does nothing; output is produced once the run finishes
func (f *JSONFormatter) Started(total int, dryRun bool) {}

// Processed does nothing; outcomes are included in the final report
func (f *JSONFormatter) Processed(index int, o models.Outcome) {}

// Finished writes the report
func (f *JSONFormatter) Finished(s *models.RunSummary) {
	encodeJSON(f.writer, NewJSONReport(s))
}

// Error writes a JSON error object
func (f *JSONFormatter) Error(err error) {
	encodeJSON(f.writer, map[string]string{
		"status": string(models.StatusFailed),
		"error":  err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
