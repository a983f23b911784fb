package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionFilterMatch(t *testing.T) {
	f := NewExtensionFilter([]string{".txt", "SQL", " .pdf ", ""})

	tests := []struct {
		name string
		want bool
	}{
		{"a.txt", true},
		{"A.TXT", true},
		{"b.Sql", true},
		{"c.pdf", true},
		{"c.jpg", false},
		{"txt", false},
		{".txt", true},
		{"archive.txt.gz", false},
		{"notes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(tt.name))
		})
	}

	assert.Equal(t, []string{".pdf", ".sql", ".txt"}, f.Extensions())
}

func TestExcluder(t *testing.T) {
	e, err := NewExcluder([]string{"*.tmp.txt", "draft_*", ""})
	require.NoError(t, err)

	assert.True(t, e.Excluded("x.tmp.txt"))
	assert.True(t, e.Excluded("draft_q1.sql"))
	assert.False(t, e.Excluded("final.sql"))

	var nilExcluder *Excluder
	assert.False(t, nilExcluder.Excluded("anything"))
}

func TestExcluderInvalidPattern(t *testing.T) {
	_, err := NewExcluder([]string{"[unclosed"})
	require.Error(t, err)

	var pe *PatternError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "[unclosed", pe.Pattern)
}

func TestFilterAccept(t *testing.T) {
	f, err := New(nil, []string{"skip_*"})
	require.NoError(t, err)

	assert.Equal(t, DefaultExtensions, []string{".txt", ".sql", ".pdf", ".rtf"})
	assert.True(t, f.Accept("report.RTF"))
	assert.False(t, f.Accept("skip_report.rtf"))
	assert.False(t, f.Accept("photo.jpg"))
}
