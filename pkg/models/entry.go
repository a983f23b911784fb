package models

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCandidate represents a source file eligible for export
type FileCandidate struct {
	// Name is the base name of the file
	Name string
	// SourcePath is the full path in the source directory
	SourcePath string
	// Size in bytes, as seen during enumeration
	Size uint64
	// ModTime is the last modification time
	ModTime time.Time
	// Mode holds the permission bits
	Mode os.FileMode
}

// Ext returns the extension of the candidate, including the dot
func (c *FileCandidate) Ext() string {
	return filepath.Ext(c.Name)
}

// Base returns the name without its extension
func (c *FileCandidate) Base() string {
	return strings.TrimSuffix(c.Name, c.Ext())
}
