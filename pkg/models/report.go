package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// RunSummary represents the results of an export run
type RunSummary struct {
	// Run details
	RunID      string
	SourcePath string
	DestPath   string
	DryRun     bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	// Timestamp is when the summary was built
	Timestamp time.Time

	// Statistics
	Copied    int
	Simulated int
	Skipped   int // duplicates and unreadable files
	Errors    int
	Renamed   int // copied or simulated under a disambiguated name

	BytesCopied int64

	// Outcomes in processing order
	Outcomes []Outcome

	// Overall status
	Status RunStatus
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusSuccess indicates every candidate reached a non-error outcome
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some files failed to copy
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates the run failed during setup
	StatusFailed RunStatus = "failed"
	// StatusCancelled indicates the run was cancelled
	StatusCancelled RunStatus = "cancelled"
)

// ExitCode returns the appropriate exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}

// Record adds an outcome to the summary counters
func (s *RunSummary) Record(o Outcome) {
	switch {
	case o.Kind == OutcomeCopied:
		s.Copied++
		s.BytesCopied += o.BytesCopied
	case o.Kind == OutcomeSimulated:
		s.Simulated++
	case o.Kind.IsSkip():
		s.Skipped++
	case o.Kind == OutcomeError:
		s.Errors++
	}
	if o.Renamed && (o.Kind == OutcomeCopied || o.Kind == OutcomeSimulated) {
		s.Renamed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Total returns the number of processed candidates
func (s *RunSummary) Total() int {
	return s.Copied + s.Simulated + s.Skipped + s.Errors
}

// Duration returns the wall time of the run
func (s *RunSummary) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Finish stamps the summary and derives its status
func (s *RunSummary) Finish(now time.Time) {
	s.EndTime = now
	s.Timestamp = now
	if s.Status == StatusCancelled || s.Status == StatusFailed {
		return
	}
	if s.Errors > 0 {
		s.Status = StatusPartial
	} else {
		s.Status = StatusSuccess
	}
}

// Text renders the summary block forwarded to notifiers and the audit log
func (s *RunSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Export summary (%s):\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Files copied: %d (%s)\n", s.Copied, humanize.IBytes(uint64(s.BytesCopied)))
	fmt.Fprintf(&b, "- Simulated (dry-run): %d\n", s.Simulated)
	fmt.Fprintf(&b, "- Skipped (duplicate or unreadable): %d\n", s.Skipped)
	fmt.Fprintf(&b, "- Errors: %d\n", s.Errors)
	return b.String()
}
