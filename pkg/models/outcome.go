package models

import (
	"time"
)

// OutcomeKind is the terminal state reached by a candidate
type OutcomeKind string

const (
	// OutcomeCopied indicates the file was written to the destination
	OutcomeCopied OutcomeKind = "copied"
	// OutcomeSimulated indicates a dry-run decided to copy the file
	OutcomeSimulated OutcomeKind = "simulated"
	// OutcomeSkippedDuplicate indicates the destination already holds the file
	OutcomeSkippedDuplicate OutcomeKind = "skipped_duplicate"
	// OutcomeSkippedUnreadable indicates the source file could not be opened
	OutcomeSkippedUnreadable OutcomeKind = "skipped_unreadable"
	// OutcomeError indicates the copy failed
	OutcomeError OutcomeKind = "error"
)

// IsSkip reports whether the kind counts as skipped in the summary
func (k OutcomeKind) IsSkip() bool {
	return k == OutcomeSkippedDuplicate || k == OutcomeSkippedUnreadable
}

// Outcome is the result of reconciling one candidate
type Outcome struct {
	Candidate *FileCandidate
	Kind      OutcomeKind
	// DestPath is the resolved destination path (empty for skips)
	DestPath string
	// Renamed is true when a disambiguation token was inserted
	Renamed bool
	// Reason is a short human-readable explanation
	Reason string
	// Err holds the underlying error for unreadable and error outcomes
	Err         error
	BytesCopied int64
	Duration    time.Duration
	Timestamp   time.Time
}

// ErrorText returns the error message or an empty string
func (o *Outcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
