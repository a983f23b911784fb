package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a directory entry
type FileInfo struct {
	Name        string
	Path        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	IsRegular   bool
	Permissions uint32
}

// Backend defines the interface for storage operations on a single directory.
// Names are relative to the backend root and never contain separators.
type Backend interface {
	// Root returns the absolute directory the backend operates on
	Root() string

	// List returns the immediate entries of the root (non-recursive)
	List(ctx context.Context) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create writes a new file and fails if the name already exists.
	// If metadata is provided, attempts to preserve timestamps and permissions.
	Create(ctx context.Context, name string, reader io.Reader, size int64, metadata *FileInfo) (int64, error)

	// Exists checks if an entry exists
	Exists(ctx context.Context, name string) (bool, error)

	// Stat returns entry metadata
	Stat(ctx context.Context, name string) (*FileInfo, error)

	// Close releases any resources held by the backend
	Close() error
}
