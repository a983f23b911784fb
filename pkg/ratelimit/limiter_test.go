package ratelimit

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name       string
		rate       int64
		wantNil    bool
		wantBucket int64
	}{
		{"Zero", 0, true, 0},
		{"Negative", -5, true, 0},
		{"Small", 1024, false, minBucket},
		{"Large", 10 * 1024 * 1024, false, 10 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(tt.rate)
			if tt.wantNil {
				if l != nil {
					t.Errorf("NewLimiter(%d) = %v, want nil", tt.rate, l)
				}
				if l.Rate() != 0 {
					t.Errorf("Rate() on nil limiter = %d, want 0", l.Rate())
				}
				return
			}
			if l == nil {
				t.Fatalf("NewLimiter(%d) returned nil", tt.rate)
			}
			if l.bucketSize != tt.wantBucket {
				t.Errorf("bucketSize = %d, want %d", l.bucketSize, tt.wantBucket)
			}
			if l.Rate() != tt.rate {
				t.Errorf("Rate() = %d, want %d", l.Rate(), tt.rate)
			}
		})
	}
}

func TestParseBandwidth(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"1024", 1024, false},
		{"10K", 10000, false},
		{"10KiB", 10240, false},
		{"1M", 1000000, false},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBandwidth(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBandwidth(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBandwidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestWrapNilLimiter(t *testing.T) {
	rc := io.NopCloser(bytes.NewReader([]byte("data")))
	if got := Wrap(context.Background(), rc, nil); got != rc {
		t.Error("Wrap() with nil limiter should return the original reader")
	}
}

func TestWrapReadsAllData(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 200*1024)
	l := NewLimiter(100 * 1024 * 1024)

	r := Wrap(context.Background(), io.NopCloser(bytes.NewReader(data)), l)
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("read %d bytes, want %d", len(got), len(data))
	}
}

func TestWrapThrottles(t *testing.T) {
	// Bucket starts full (64KiB); reading 128KiB at 64KiB/s needs about one second
	data := bytes.Repeat([]byte("y"), 2*minBucket)
	l := NewLimiter(minBucket)

	start := time.Now()
	r := Wrap(context.Background(), io.NopCloser(bytes.NewReader(data)), l)
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("read finished in %v, expected throttling", elapsed)
	}
}

func TestWrapContextCancelled(t *testing.T) {
	l := NewLimiter(1)
	l.tokens = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := Wrap(ctx, io.NopCloser(bytes.NewReader([]byte("abc"))), l)
	if _, err := r.Read(make([]byte, 3)); err != context.Canceled {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}
