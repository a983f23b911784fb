package compare

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"

	"github.com/sdejongh/exporter/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// Partial hashing configuration
const (
	// Minimum file size to enable partial hashing (1MB)
	partialHashThreshold = 1 * 1024 * 1024
	// Size of partial hash to compute (256KB)
	partialHashSize = 256 * 1024
)

// HashComparator compares files using SHA-256 once their sizes match
type HashComparator struct {
	bufferPool        *sync.Pool
	enablePartialHash bool
	readerWrapper     ReaderWrapper
}

// NewHashComparator creates a new hash-based comparator
func NewHashComparator(bufferSize int) *HashComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &HashComparator{
		enablePartialHash: true,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetPartialHashEnabled enables or disables the partial hash pre-check
func (c *HashComparator) SetPartialHashEnabled(enabled bool) {
	c.enablePartialHash = enabled
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *HashComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares two files using SHA-256 hash
func (c *HashComparator) Compare(ctx context.Context, source, dest storage.Backend, sourceName, destName string) (*Comparison, error) {
	sourceInfo, destInfo, err := statBoth(ctx, source, dest, sourceName, destName)
	if err != nil {
		return c.failed(sourceName, destName, "failed to stat files", err)
	}

	if !destInfo.IsRegular {
		return notRegular(sourceName, destName), nil
	}

	// Sizes differ: no need to read content
	if sourceInfo.Size != destInfo.Size {
		return &Comparison{
			SourceName: sourceName,
			DestName:   destName,
			Result:     Different,
			Reason:     "file sizes differ",
		}, nil
	}

	// Quick rejection for large files on their first bytes
	if c.enablePartialHash && sourceInfo.Size >= partialHashThreshold {
		sourcePartial, sourceErr := c.computeHash(ctx, source, sourceName, partialHashSize)
		destPartial, destErr := c.computeHash(ctx, dest, destName, partialHashSize)
		if sourceErr == nil && destErr == nil && sourcePartial != destPartial {
			return &Comparison{
				SourceName: sourceName,
				DestName:   destName,
				Result:     Different,
				Reason:     "file partial hashes differ",
			}, nil
		}
	}

	sourceHash, err := c.computeHash(ctx, source, sourceName, -1)
	if err != nil {
		return c.failed(sourceName, destName, "failed to compute source hash", err)
	}
	destHash, err := c.computeHash(ctx, dest, destName, -1)
	if err != nil {
		return c.failed(sourceName, destName, "failed to compute destination hash", err)
	}

	if sourceHash != destHash {
		return &Comparison{
			SourceName: sourceName,
			DestName:   destName,
			Result:     Different,
			Reason:     "file hashes differ",
		}, nil
	}

	return &Comparison{
		SourceName: sourceName,
		DestName:   destName,
		Result:     Same,
		Reason:     "file hashes match",
	}, nil
}

func (c *HashComparator) failed(sourceName, destName, reason string, err error) (*Comparison, error) {
	return &Comparison{
		SourceName: sourceName,
		DestName:   destName,
		Result:     Error,
		Reason:     reason,
		Error:      err,
	}, err
}

// computeHash hashes the first limit bytes of a file, or all of it when limit < 0
func (c *HashComparator) computeHash(ctx context.Context, backend storage.Backend, name string, limit int64) (string, error) {
	reader, err := backend.Open(ctx, name)
	if err != nil {
		return "", err
	}
	if c.readerWrapper != nil {
		reader = c.readerWrapper(reader)
	}
	defer reader.Close()

	var src io.Reader = reader
	if limit >= 0 {
		src = io.LimitReader(reader, limit)
	}

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)
	buffer := *bufPtr

	hasher := sha256.New()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := src.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Errorf("failed to read file: %w", err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return "hash"
}
