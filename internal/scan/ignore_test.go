package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "  ", "# working files", "*.kra"})
		if len(m.patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(m.patterns))
		}
		if m.patterns[0].pattern != "*.kra" {
			t.Errorf("expected *.kra, got %s", m.patterns[0].pattern)
		}
	})

	t.Run("classifies path vs basename patterns", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"*.bak", "exports/raw"})
		if m.patterns[0].matchPath {
			t.Error("*.bak should not be a path pattern")
		}
		if !m.patterns[1].matchPath {
			t.Error("exports/raw should be a path pattern")
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name         string
		patterns     []string
		relativePath string
		want         bool
	}{
		{
			name:         "basename glob matches file in root",
			patterns:     []string{"*_old.png"},
			relativePath: "hero_old.png",
			want:         true,
		},
		{
			name:         "basename glob matches file in subdirectory",
			patterns:     []string{"*_old.png"},
			relativePath: filepath.Join("sketches", "hero_old.png"),
			want:         true,
		},
		{
			name:         "basename glob does not match different name",
			patterns:     []string{"*_old.png"},
			relativePath: "hero.png",
			want:         false,
		},
		{
			name:         "exact basename matches in subdirectory",
			patterns:     []string{"Thumbs.db"},
			relativePath: filepath.Join("refs", "Thumbs.db"),
			want:         true,
		},
		{
			name:         "path pattern matches exact relative path",
			patterns:     []string{"exports/raw"},
			relativePath: filepath.Join("exports", "raw"),
			want:         true,
		},
		{
			name:         "path pattern does not match wrong path",
			patterns:     []string{"exports/raw"},
			relativePath: filepath.Join("src", "raw"),
			want:         false,
		},
		{
			name:         "path pattern with glob",
			patterns:     []string{"wip/*.psd"},
			relativePath: filepath.Join("wip", "boss.psd"),
			want:         true,
		},
		{
			name:         "question mark wildcard",
			patterns:     []string{"v?.png"},
			relativePath: "v2.png",
			want:         true,
		},
		{
			name:         "no patterns matches nothing",
			patterns:     nil,
			relativePath: "anything.png",
			want:         false,
		},
		{
			name:         "multiple patterns second matches",
			patterns:     []string{"*.bak", "*.tmp"},
			relativePath: "texture.tmp",
			want:         true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.patterns)
			got := m.Match(tt.relativePath)
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.relativePath, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("reads patterns from file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, IgnoreFileName)
		content := "*.bak\n# old exports\n\nwip/*.psd\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		patterns, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		// Raw lines include the blank and the comment; filtering is
		// NewIgnoreMatcher's job.
		if len(patterns) != 4 {
			t.Fatalf("expected 4 raw lines, got %d", len(patterns))
		}

		m := NewIgnoreMatcher(patterns)
		if len(m.patterns) != 2 {
			t.Errorf("expected 2 parsed patterns, got %d", len(m.patterns))
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		patterns, err := ParseIgnoreFile(filepath.Join(t.TempDir(), IgnoreFileName))
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}
