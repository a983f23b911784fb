// Package filter decides which source entries are export candidates.
package filter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions is the extension set exported when none is configured
var DefaultExtensions = []string{".txt", ".sql", ".pdf", ".rtf"}

// ExtensionFilter matches file names by a fixed set of case-insensitive suffixes
type ExtensionFilter struct {
	exts map[string]struct{}
}

// NewExtensionFilter creates a filter from extensions such as ".txt" or "sql"
func NewExtensionFilter(exts []string) *ExtensionFilter {
	f := &ExtensionFilter{exts: make(map[string]struct{}, len(exts))}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.exts[ext] = struct{}{}
	}
	return f
}

// Match reports whether name ends with one of the configured extensions
func (f *ExtensionFilter) Match(name string) bool {
	lower := strings.ToLower(name)
	for ext := range f.exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Extensions returns the configured extensions, sorted
func (f *ExtensionFilter) Extensions() []string {
	out := make([]string, 0, len(f.exts))
	for ext := range f.exts {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Excluder rejects names matching any of a list of glob patterns.
// Patterns use doublestar syntax and are matched against the base name.
type Excluder struct {
	patterns []string
}

// NewExcluder validates the patterns and returns an excluder
func NewExcluder(patterns []string) (*Excluder, error) {
	var valid []string
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p}
		}
		valid = append(valid, p)
	}
	return &Excluder{patterns: valid}, nil
}

// Excluded reports whether name matches one of the patterns
func (e *Excluder) Excluded(name string) bool {
	if e == nil {
		return false
	}
	name = filepath.ToSlash(name)
	for _, p := range e.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// PatternError reports a malformed exclude pattern
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "invalid exclude pattern: " + e.Pattern
}

// Filter combines the extension filter and the excluder
type Filter struct {
	Extensions *ExtensionFilter
	Exclude    *Excluder
}

// New builds a Filter. An empty extension list falls back to DefaultExtensions.
func New(exts, exclude []string) (*Filter, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	excluder, err := NewExcluder(exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{
		Extensions: NewExtensionFilter(exts),
		Exclude:    excluder,
	}, nil
}

// Accept reports whether a file with this name is an export candidate
func (f *Filter) Accept(name string) bool {
	return f.Extensions.Match(name) && !f.Exclude.Excluded(name)
}
