package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// ErrExists is returned by Create when the target name is taken
var ErrExists = errors.Base("destination file already exists")

var chtimes = os.Chtimes

// Local is a filesystem-based storage backend
type Local struct {
	rootPath string
}

// LocalOption configures NewLocal
type LocalOption func(*localOptions)

type localOptions struct {
	allowMissing bool
}

// AllowMissing accepts a root that does not exist yet. Such a backend
// behaves as an empty directory until the root is created.
func AllowMissing() LocalOption {
	return func(o *localOptions) {
		o.allowMissing = true
	}
}

// NewLocal creates a new local filesystem backend
func NewLocal(rootPath string, opts ...LocalOption) (*Local, error) {
	var o localOptions
	for _, opt := range opts {
		opt(&o)
	}

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errors.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if o.allowMissing && errors.Is(err, fs.ErrNotExist) {
			return &Local{rootPath: absPath}, nil
		}
		return nil, errors.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, errors.Errorf("path is not a directory: %s", absPath)
	}

	return &Local{rootPath: absPath}, nil
}

// Root returns the absolute root directory
func (l *Local) Root() string {
	return l.rootPath
}

// List returns the immediate entries of the root directory
func (l *Local) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(l.rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Errorf("failed to list files: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, d := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		info, err := d.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Errorf("failed to stat %s: %w", d.Name(), err)
		}
		files = append(files, toFileInfo(filepath.Join(l.rootPath, d.Name()), info))
	}

	return files, nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(l.path(name))
	if err != nil {
		return nil, errors.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Create writes a new file. The file is opened with O_EXCL so an existing
// entry is never overwritten. On any failure the new file is removed.
func (l *Local) Create(ctx context.Context, name string, reader io.Reader, size int64, metadata *FileInfo) (int64, error) {
	fullPath := l.path(name)

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, errors.WithStack(ErrExists)
		}
		return 0, errors.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(file, reader)
	if err == nil && written != size {
		err = errors.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = errors.Errorf("failed to close file: %w", closeErr)
	}
	if err != nil {
		os.Remove(fullPath)
		return written, errors.Errorf("failed to write file: %w", err)
	}

	if metadata != nil {
		if !metadata.ModTime.IsZero() {
			if err := chtimes(fullPath, metadata.ModTime, metadata.ModTime); err != nil {
				os.Remove(fullPath)
				return written, errors.Errorf("failed to set modification time: %w", err)
			}
		}

		// Permission bits are best-effort
		if metadata.Permissions != 0 {
			_ = os.Chmod(fullPath, os.FileMode(metadata.Permissions))
		}
	}

	return written, nil
}

// Exists checks if an entry exists
func (l *Local) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Lstat(l.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("failed to check existence: %w", err)
}

// Stat returns entry metadata
func (l *Local) Stat(ctx context.Context, name string) (*FileInfo, error) {
	fullPath := l.path(name)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, errors.Errorf("failed to stat file: %w", err)
	}

	fi := toFileInfo(fullPath, info)
	return &fi, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func (l *Local) path(name string) string {
	return filepath.Join(l.rootPath, filepath.Base(name))
}

func toFileInfo(path string, info fs.FileInfo) FileInfo {
	return FileInfo{
		Name:        info.Name(),
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		IsRegular:   info.Mode().IsRegular(),
		Permissions: uint32(info.Mode().Perm()),
	}
}
