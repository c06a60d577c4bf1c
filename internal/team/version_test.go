package team

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arthub-go/internal/arthub"
	"arthub-go/internal/testutil"
)

func newVersionTest(t *testing.T) (*VersionStore, *testutil.StubClock, string) {
	t.Helper()
	root := t.TempDir()
	clock := testutil.FixedClock()
	return NewVersionStore(root, clock), clock, root
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestVersionStore_CreateAndHistory(t *testing.T) {
	s, clock, root := newVersionTest(t)
	src := writeSource(t, root, "hero.psd", "first draft")

	v1, err := s.Create(src, "alice", "initial sketch")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if v1.Version != 1 {
		t.Errorf("Version = %d, want 1", v1.Version)
	}
	if v1.Author != "alice" {
		t.Errorf("Author = %q, want %q", v1.Author, "alice")
	}
	if v1.FileSize != int64(len("first draft")) {
		t.Errorf("FileSize = %d, want %d", v1.FileSize, len("first draft"))
	}
	wantName := fmt.Sprintf("v1_%d.psd", clock.Now().Unix())
	if v1.SnapshotName != wantName {
		t.Errorf("SnapshotName = %q, want %q", v1.SnapshotName, wantName)
	}

	clock.Advance(time.Hour)
	writeSource(t, root, "hero.psd", "second draft, longer")
	v2, err := s.Create(src, "bob", "refined lines")
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if v2.Version != 2 {
		t.Errorf("Version = %d, want 2", v2.Version)
	}

	hist, err := s.History(src)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if hist == nil {
		t.Fatal("History() = nil, want manifest")
	}
	if hist.CurrentVersion != 2 {
		t.Errorf("CurrentVersion = %d, want 2", hist.CurrentVersion)
	}
	if len(hist.Versions) != 2 {
		t.Fatalf("len(Versions) = %d, want 2", len(hist.Versions))
	}
	if hist.Versions[1].Comment != "refined lines" {
		t.Errorf("Comment = %q, want %q", hist.Versions[1].Comment, "refined lines")
	}
	if hist.FilePath != src {
		t.Errorf("FilePath = %q, want %q", hist.FilePath, src)
	}
}

func TestVersionStore_HistoryUnversioned(t *testing.T) {
	s, _, _ := newVersionTest(t)

	hist, err := s.History("assets/never-versioned.png")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if hist != nil {
		t.Errorf("History() = %+v, want nil for unversioned path", hist)
	}
}

func TestVersionStore_Restore(t *testing.T) {
	s, clock, root := newVersionTest(t)
	src := writeSource(t, root, "map.tga", "version one")

	if _, err := s.Create(src, "alice", "v1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	clock.Advance(time.Minute)
	writeSource(t, root, "map.tga", "version two")
	if _, err := s.Create(src, "alice", "v2"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	writeSource(t, root, "map.tga", "working copy")

	t.Run("restore in place", func(t *testing.T) {
		if err := s.Restore(src, 1, src); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(data) != "version one" {
			t.Errorf("restored content = %q, want %q", data, "version one")
		}
	})

	t.Run("restore to another path", func(t *testing.T) {
		target := filepath.Join(root, "map_v2.tga")
		if err := s.Restore(src, 2, target); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		data, err := os.ReadFile(target)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(data) != "version two" {
			t.Errorf("restored content = %q, want %q", data, "version two")
		}
	})
}

func TestVersionStore_RestoreNotFound(t *testing.T) {
	s, _, root := newVersionTest(t)
	src := writeSource(t, root, "hero.psd", "content")

	t.Run("no history", func(t *testing.T) {
		err := s.Restore(src, 1, src)
		if !errors.Is(err, arthub.ErrNotFound) {
			t.Errorf("Restore() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown version", func(t *testing.T) {
		if _, err := s.Create(src, "alice", ""); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		err := s.Restore(src, 7, src)
		if !errors.Is(err, arthub.ErrNotFound) {
			t.Errorf("Restore() error = %v, want ErrNotFound", err)
		}
	})
}

func TestVersionStore_RestoreMissingSnapshot(t *testing.T) {
	s, _, root := newVersionTest(t)
	src := writeSource(t, root, "hero.psd", "content")

	v, err := s.Create(src, "alice", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := os.Remove(filepath.Join(s.versionDir(src), v.SnapshotName)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	// Manifest knows the version but the snapshot is gone: this is an I/O
	// failure, not a not-found.
	err = s.Restore(src, 1, src)
	if err == nil {
		t.Fatal("Restore() error = nil, want error for missing snapshot")
	}
	if errors.Is(err, arthub.ErrNotFound) {
		t.Errorf("Restore() error = %v, want a plain I/O error", err)
	}
}

func TestVersionStore_NoExtension(t *testing.T) {
	s, clock, root := newVersionTest(t)
	src := writeSource(t, root, "README", "docs")

	v, err := s.Create(src, "alice", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	wantName := fmt.Sprintf("v1_%d.bin", clock.Now().Unix())
	if v.SnapshotName != wantName {
		t.Errorf("SnapshotName = %q, want %q", v.SnapshotName, wantName)
	}
}

func TestVersionStore_CorruptHistory(t *testing.T) {
	s, _, root := newVersionTest(t)
	src := writeSource(t, root, "hero.psd", "content")

	if _, err := s.Create(src, "alice", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := os.WriteFile(s.historyPath(src), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := s.History(src); !errors.Is(err, arthub.ErrCorrupt) {
		t.Errorf("History() error = %v, want ErrCorrupt", err)
	}

	// Creating over a corrupt manifest must fail rather than restart the
	// numbering and orphan the snapshots already on disk.
	if _, err := s.Create(src, "alice", ""); !errors.Is(err, arthub.ErrCorrupt) {
		t.Errorf("Create() error = %v, want ErrCorrupt", err)
	}
}

func TestVersionStore_SourceMissing(t *testing.T) {
	s, _, root := newVersionTest(t)

	_, err := s.Create(filepath.Join(root, "no-such-file.psd"), "alice", "")
	if err == nil {
		t.Error("Create() error = nil, want error for missing source")
	}
}
