package arthub

import (
	"fmt"
	"path/filepath"
)

// ArtHubService implements the asset manager's workflows on top of the
// injected ports. The team ports (locks, versions, perms, activity) may be
// nil when no shared root is configured; team operations then fail with
// ErrNoSharedRoot and activity journaling is skipped.
type ArtHubService struct {
	index    Index
	locks    LockManager
	versions VersionStore
	perms    PermissionStore
	activity ActivityLog
	scanner  Scanner
	thumbs   Thumbnailer
	logger   Logger
	clock    Clock
	user     string
	machine  string
}

// NewArtHubService creates the service with its dependencies.
func NewArtHubService(
	index Index,
	locks LockManager,
	versions VersionStore,
	perms PermissionStore,
	activity ActivityLog,
	scanner Scanner,
	thumbs Thumbnailer,
	logger Logger,
	clock Clock,
	user, machine string,
) *ArtHubService {
	return &ArtHubService{
		index:    index,
		locks:    locks,
		versions: versions,
		perms:    perms,
		activity: activity,
		scanner:  scanner,
		thumbs:   thumbs,
		logger:   logger,
		clock:    clock,
		user:     user,
		machine:  machine,
	}
}

// User returns the identity used for curation and team operations.
func (s *ArtHubService) User() string { return s.user }

// teamEnabled reports whether a shared root was wired in.
func (s *ArtHubService) teamEnabled() bool { return s.locks != nil }

// logAction journals a team-visible action. Journaling is best-effort: a
// failed append is logged and swallowed so it never breaks the operation
// that triggered it.
func (s *ArtHubService) logAction(action, targetPath, data string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Append(s.user, s.machine, action, targetPath, data); err != nil {
		s.logger.Warn("appending action journal entry", "action", action, "error", err)
	}
}

// AddFolder starts tracking a directory. The folder name is the path's base
// component; spaceType defaults to personal.
func (s *ArtHubService) AddFolder(path, spaceType string) (*Folder, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving folder path: %w", err)
	}
	if spaceType == "" {
		spaceType = SpacePersonal
	}
	if spaceType != SpacePersonal && spaceType != SpaceShared {
		return nil, fmt.Errorf("%w: unknown space type %q", ErrValidation, spaceType)
	}

	folder, err := s.index.InsertFolder(abs, filepath.Base(abs), spaceType)
	if err != nil {
		return nil, fmt.Errorf("inserting folder: %w", err)
	}

	s.logger.Info("folder added", "path", abs, "space", spaceType, "id", folder.ID)
	s.logAction("add_folder", abs, "")
	return folder, nil
}

// Folders lists tracked folders, optionally filtered by space type.
func (s *ArtHubService) Folders(spaceType string) ([]*Folder, error) {
	return s.index.Folders(spaceType)
}

// RemoveFolder stops tracking a folder, dropping its assets and their
// cached thumbnails. The files themselves are untouched.
func (s *ArtHubService) RemoveFolder(id int64) error {
	paths, err := s.index.RemoveFolder(id)
	if err != nil {
		return fmt.Errorf("removing folder: %w", err)
	}
	s.thumbs.Remove(paths)
	s.logger.Info("folder removed", "id", id, "assets", len(paths))
	return nil
}

// Stats summarizes the index.
func (s *ArtHubService) Stats() (*Stats, error) {
	return s.index.Stats()
}
