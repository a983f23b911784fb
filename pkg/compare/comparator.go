package compare

import (
	"context"
	"io"

	"github.com/sdejongh/exporter/pkg/models"
	"github.com/sdejongh/exporter/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// Result represents the outcome of comparing a source file with the
// destination file of the same name
type Result string

const (
	// Same indicates the destination already holds this file
	Same Result = "same"
	// Different indicates the files differ
	Different Result = "different"
	// Error indicates comparison failed
	Error Result = "error"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	SourceName string
	DestName   string
	Result     Result
	Reason     string
	Error      error
}

// ReaderWrapper wraps a reader opened by a comparator (e.g., for rate limiting)
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// Comparator decides whether an existing destination file duplicates a source file
type Comparator interface {
	// Compare compares two files and returns the result
	Compare(ctx context.Context, source, dest storage.Backend, sourceName, destName string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// New returns the comparator for a duplicate detection mode
func New(mode models.DuplicateMode, bufferSize int) (Comparator, error) {
	switch mode {
	case models.DuplicateSize, "":
		return NewSizeComparator(), nil
	case models.DuplicateHash:
		return NewHashComparator(bufferSize), nil
	default:
		return nil, errors.Errorf("unsupported duplicate mode: %s (use: size, hash)", mode)
	}
}

// notRegular is the result for a destination entry that is not a regular
// file, such as a directory. It can never be a duplicate.
func notRegular(sourceName, destName string) *Comparison {
	return &Comparison{
		SourceName: sourceName,
		DestName:   destName,
		Result:     Different,
		Reason:     "destination is not a regular file",
	}
}

// statBoth stats the source and destination entries
func statBoth(ctx context.Context, source, dest storage.Backend, sourceName, destName string) (*storage.FileInfo, *storage.FileInfo, error) {
	sourceInfo, err := source.Stat(ctx, sourceName)
	if err != nil {
		return nil, nil, errors.Errorf("failed to stat source file: %w", err)
	}

	destInfo, err := dest.Stat(ctx, destName)
	if err != nil {
		return nil, nil, errors.Errorf("failed to stat destination file: %w", err)
	}

	return sourceInfo, destInfo, nil
}
