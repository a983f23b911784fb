// Package ratelimit caps the bandwidth used when copying file content.
package ratelimit

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"gitlab.com/tozd/go/errors"
)

// minBucket keeps small limits from degenerating into tiny reads
const minBucket = 64 * 1024

// Limiter is a token bucket shared by every reader of one run
type Limiter struct {
	bytesPerSecond int64
	bucketSize     int64

	mu         sync.Mutex
	tokens     int64
	lastRefill time.Time
}

// NewLimiter creates a limiter. A non-positive rate means unlimited and
// returns nil; every function in this package accepts a nil *Limiter.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucket := bytesPerSecond
	if bucket < minBucket {
		bucket = minBucket
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucketSize:     bucket,
		tokens:         bucket,
		lastRefill:     time.Now(),
	}
}

// ParseBandwidth parses limits such as "512K", "10M" or "1GiB" into bytes
// per second. An empty string means unlimited.
func ParseBandwidth(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Errorf("invalid bandwidth %q: %w", s, err)
	}
	return int64(n), nil
}

// Rate returns the configured bytes per second
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.bytesPerSecond
}

// wait blocks until n tokens are available or ctx is done
func (l *Limiter) wait(ctx context.Context, n int64) error {
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		delay := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if delay < time.Millisecond {
			delay = time.Millisecond
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill adds tokens for the elapsed time; the caller holds mu
func (l *Limiter) refill() {
	now := time.Now()
	add := int64(now.Sub(l.lastRefill).Seconds() * float64(l.bytesPerSecond))
	if add <= 0 {
		return
	}
	l.tokens += add
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
	l.lastRefill = now
}

// refund returns tokens reserved for bytes that were not read
func (l *Limiter) refund(n int64) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	l.tokens += n
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
	l.mu.Unlock()
}

type reader struct {
	ctx     context.Context
	src     io.ReadCloser
	limiter *Limiter
}

// Wrap returns rc throttled by l. With a nil limiter rc is returned as is.
func Wrap(ctx context.Context, rc io.ReadCloser, l *Limiter) io.ReadCloser {
	if l == nil {
		return rc
	}
	return &reader{ctx: ctx, src: rc, limiter: l}
}

func (r *reader) Read(p []byte) (int, error) {
	want := int64(len(p))
	if want > r.limiter.bucketSize {
		want = r.limiter.bucketSize
	}
	if want == 0 {
		return 0, nil
	}
	if err := r.limiter.wait(r.ctx, want); err != nil {
		return 0, err
	}

	n, err := r.src.Read(p[:want])
	r.limiter.refund(want - int64(n))
	return n, err
}

func (r *reader) Close() error {
	return r.src.Close()
}
