package compare

import (
	"context"

	"github.com/sdejongh/exporter/pkg/storage"
)

// SizeComparator treats files of equal byte size as duplicates.
// Content is not inspected: two different files of the same size compare Same.
type SizeComparator struct{}

// NewSizeComparator creates a new size comparator
func NewSizeComparator() *SizeComparator {
	return &SizeComparator{}
}

// Compare compares two files by size
func (c *SizeComparator) Compare(ctx context.Context, source, dest storage.Backend, sourceName, destName string) (*Comparison, error) {
	sourceInfo, destInfo, err := statBoth(ctx, source, dest, sourceName, destName)
	if err != nil {
		return &Comparison{
			SourceName: sourceName,
			DestName:   destName,
			Result:     Error,
			Reason:     "failed to stat files",
			Error:      err,
		}, err
	}

	if !destInfo.IsRegular {
		return notRegular(sourceName, destName), nil
	}

	if sourceInfo.Size != destInfo.Size {
		return &Comparison{
			SourceName: sourceName,
			DestName:   destName,
			Result:     Different,
			Reason:     "file sizes differ",
		}, nil
	}

	return &Comparison{
		SourceName: sourceName,
		DestName:   destName,
		Result:     Same,
		Reason:     "sizes match",
	}, nil
}

// Name returns the comparator name
func (c *SizeComparator) Name() string {
	return "size"
}
