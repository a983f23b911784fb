package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())

	p, err := s.Load()
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s := NewStore(dir)

	require.NoError(t, s.Save(Paths{Source: "/data/in", Destination: "/data/out"}))
	assert.FileExists(t, filepath.Join(dir, FileName))

	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/in", p.Source)
	assert.Equal(t, "/data/out", p.Destination)

	// Saving again replaces the previous values
	require.NoError(t, s.Save(Paths{Source: "/other"}))
	p, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "/other", p.Source)
	assert.Empty(t, p.Destination)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save(Paths{Source: "/a", Destination: "/b"}))

	require.NoError(t, s.Clear())
	assert.NoFileExists(t, s.Path())

	// Clearing twice is fine
	require.NoError(t, s.Clear())
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644))

	_, err := NewStore(dir).Load()
	assert.Error(t, err)
}
