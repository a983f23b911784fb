package models

import (
	"time"
)

// DuplicateMode defines how an existing destination file is recognised as
// an earlier export of the same source file
type DuplicateMode string

const (
	// DuplicateSize treats equal byte sizes as a duplicate
	DuplicateSize DuplicateMode = "size"
	// DuplicateHash requires equal sizes and equal SHA-256 digests
	DuplicateHash DuplicateMode = "hash"
)

// ExportRequest represents one export run as requested by the caller
type ExportRequest struct {
	ID        string
	SourceDir string
	DestDir   string
	DryRun    bool
	CreatedAt time.Time
}

// Validate checks that both directories were supplied
func (r *ExportRequest) Validate() error {
	if r.SourceDir == "" {
		return &ValidationError{Field: "SourceDir", Message: "source directory is required"}
	}
	if r.DestDir == "" {
		return &ValidationError{Field: "DestDir", Message: "destination directory is required"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
