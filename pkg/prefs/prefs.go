// Package prefs remembers the last source and destination used, so the
// next run can be pre-populated.
package prefs

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"
)

const (
	FileName = "prefs.json"

	keySource = "source"
	keyDest   = "destination"
)

// Paths holds the remembered directories
type Paths struct {
	Source      string
	Destination string
}

// Empty reports whether nothing has been remembered
func (p Paths) Empty() bool {
	return p.Source == "" && p.Destination == ""
}

// Store persists Paths as key-value pairs in a JSON file
type Store struct {
	path string
}

// NewStore returns a store backed by dir/prefs.json
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Load reads the remembered paths. A missing file yields empty Paths.
func (s *Store) Load() (Paths, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return Paths{}, nil
	}

	v := s.viper()
	if err := v.ReadInConfig(); err != nil {
		return Paths{}, errors.Errorf("failed to read preferences '%s': %w", s.path, err)
	}

	return Paths{
		Source:      v.GetString(keySource),
		Destination: v.GetString(keyDest),
	}, nil
}

// Save overwrites the stored paths
func (s *Store) Save(p Paths) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Errorf("failed to create preferences directory: %w", err)
	}

	v := s.viper()
	v.Set(keySource, p.Source)
	v.Set(keyDest, p.Destination)
	if err := v.WriteConfigAs(s.path); err != nil {
		return errors.Errorf("failed to write preferences '%s': %w", s.path, err)
	}
	return nil
}

// Clear forgets the stored paths
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("failed to remove preferences: %w", err)
	}
	return nil
}

func (s *Store) viper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	return v
}
