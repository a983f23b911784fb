package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Run("RelativeBecomesAbsolute", func(t *testing.T) {
		got, err := Resolve("some/dir")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("Resolve() = %s, want absolute path", got)
		}
	})

	t.Run("MissingTailIsKept", func(t *testing.T) {
		base := t.TempDir()
		got, err := Resolve(filepath.Join(base, "not", "yet"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if filepath.Base(got) != "yet" || filepath.Base(filepath.Dir(got)) != "not" {
			t.Errorf("Resolve() = %s, want tail not/yet preserved", got)
		}
	})

	t.Run("SymlinkFollowed", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks require privileges on Windows")
		}
		base := t.TempDir()
		real := filepath.Join(base, "real")
		link := filepath.Join(base, "link")
		if err := os.Mkdir(real, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.Symlink(real, link); err != nil {
			t.Fatalf("symlink: %v", err)
		}

		a, _ := Resolve(real)
		b, _ := Resolve(link)
		if !SamePath(a, b) {
			t.Errorf("Resolve(link) = %s, want %s", b, a)
		}
	})
}

func TestIsNested(t *testing.T) {
	sep := string(filepath.Separator)
	root := filepath.Join(sep, "data")

	tests := []struct {
		name   string
		parent string
		child  string
		want   bool
	}{
		{"DirectChild", root, filepath.Join(root, "out"), true},
		{"DeepChild", root, filepath.Join(root, "a", "b"), true},
		{"Same", root, root, false},
		{"Sibling", root, filepath.Join(sep, "database"), false},
		{"Parent", filepath.Join(root, "out"), root, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNested(tt.parent, tt.child); got != tt.want {
				t.Errorf("IsNested(%s, %s) = %v, want %v", tt.parent, tt.child, got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	if got := NormalizePath("a//b/./c/"); got != filepath.Join("a", "b", "c") {
		t.Errorf("NormalizePath() = %s", got)
	}
}

func TestIsUNCPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{`\\server\share\dir`, runtime.GOOS == "windows"},
		{"//server/share", runtime.GOOS == "windows"},
		{"/srv/share", false},
		{"relative/dir", false},
	}

	for _, tt := range tests {
		if got := IsUNCPath(tt.path); got != tt.want {
			t.Errorf("IsUNCPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
