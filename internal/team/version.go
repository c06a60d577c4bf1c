package team

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"arthub-go/internal/arthub"
)

// VersionStore keeps full-file snapshots in the shared space. Each tracked
// path gets a directory named by its path key holding a history.json
// manifest plus one snapshot file per version.
type VersionStore struct {
	root  string
	clock arthub.Clock
}

var _ arthub.VersionStore = (*VersionStore)(nil)

func NewVersionStore(root string, clock arthub.Clock) *VersionStore {
	return &VersionStore{root: root, clock: clock}
}

func (s *VersionStore) versionDir(filePath string) string {
	return filepath.Join(s.root, metaDir, versionsDir, arthub.PathKey(filePath))
}

func (s *VersionStore) historyPath(filePath string) string {
	return filepath.Join(s.versionDir(filePath), "history.json")
}

// History returns the version manifest for a path, or nil when the path has
// never been versioned. A manifest that exists but does not parse is
// reported as corrupt rather than silently reset, so snapshots on disk are
// never orphaned by a writer starting a fresh history over them.
func (s *VersionStore) History(filePath string) (*arthub.FileHistory, error) {
	data, err := os.ReadFile(s.historyPath(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var hist arthub.FileHistory
	if err := json.Unmarshal(data, &hist); err != nil {
		return nil, fmt.Errorf("%w: history for %s: %v", arthub.ErrCorrupt, filePath, err)
	}
	return &hist, nil
}

// Create snapshots the current contents of filePath as the next version and
// records it in the manifest. The snapshot is written before the manifest,
// so a crash in between leaves at worst an unreferenced snapshot file.
func (s *VersionStore) Create(filePath, author, comment string) (*arthub.FileVersion, error) {
	dir := s.versionDir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating version directory: %w", err)
	}

	hist, err := s.History(filePath)
	if err != nil {
		return nil, err
	}
	if hist == nil {
		hist = &arthub.FileHistory{FilePath: filePath}
	}

	next := hist.CurrentVersion + 1
	now := s.clock.Now()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if ext == "" {
		ext = "bin"
	}
	name := fmt.Sprintf("v%d_%d.%s", next, now.Unix(), ext)

	size, err := copySnapshot(filePath, filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	entry := &arthub.FileVersion{
		Version:      next,
		Author:       author,
		Timestamp:    now.Unix(),
		Comment:      comment,
		SnapshotName: name,
		FileSize:     size,
	}
	hist.Versions = append(hist.Versions, entry)
	hist.CurrentVersion = next

	data, err := json.MarshalIndent(hist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	if err := writeFileAtomic(s.historyPath(filePath), data); err != nil {
		return nil, err
	}
	return entry, nil
}

// Restore copies the snapshot of the given version over targetPath. An
// unknown path or version number is a not-found error; a manifest entry
// whose snapshot file has gone missing surfaces as an I/O error instead so
// the two cases stay distinguishable.
func (s *VersionStore) Restore(filePath string, version int, targetPath string) error {
	hist, err := s.History(filePath)
	if err != nil {
		return err
	}
	if hist == nil {
		return fmt.Errorf("%w: no version history for %s", arthub.ErrNotFound, filePath)
	}

	var entry *arthub.FileVersion
	for _, ver := range hist.Versions {
		if ver.Version == version {
			entry = ver
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("%w: version %d of %s", arthub.ErrNotFound, version, filePath)
	}

	snap := filepath.Join(s.versionDir(filePath), entry.SnapshotName)
	if _, err := os.Stat(snap); err != nil {
		return fmt.Errorf("reading snapshot %s: %w", entry.SnapshotName, err)
	}
	if _, err := copySnapshot(snap, targetPath); err != nil {
		return err
	}
	return nil
}

func copySnapshot(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("creating snapshot: %w", err)
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("copying snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing snapshot: %w", err)
	}
	return n, nil
}
