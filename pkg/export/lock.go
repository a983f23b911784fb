package export

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// lockFile returns the lock path for a destination. Locks live outside the
// destination so dry runs and exports never add files to it.
func lockFile(lockDir, dest string) string {
	sum := sha256.Sum256([]byte(dest))
	return filepath.Join(lockDir, "locks", hex.EncodeToString(sum[:8])+".lock")
}

// acquireLock takes the single-writer lock for dest without blocking
func acquireLock(lockDir, dest string) (*flock.Flock, error) {
	path := lockFile(lockDir, dest)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, errors.WithStack(ErrDestinationLocked)
	}
	return fl, nil
}
