package arthub

import "fmt"

// Team workflows. Every operation here needs a shared root; without one the
// ports are nil and requireTeam fails fast.

func (s *ArtHubService) requireTeam() error {
	if !s.teamEnabled() {
		return ErrNoSharedRoot
	}
	return nil
}

// guardLock fails with ErrLockHeld when another user holds a live lock on
// the path. The caller's own lock (or a stale one) does not block.
func (s *ArtHubService) guardLock(path string) error {
	status, err := s.locks.Check(path)
	if err != nil {
		return fmt.Errorf("checking lock: %w", err)
	}
	if status.IsLocked && status.LockedBy != s.user {
		return fmt.Errorf("%w: %s holds %s", ErrLockHeld, status.LockedBy, path)
	}
	return nil
}

// CheckLock reports the lock state of a file.
func (s *ArtHubService) CheckLock(path string) (*LockStatus, error) {
	if err := s.requireTeam(); err != nil {
		return nil, err
	}
	return s.locks.Check(path)
}

// Lock tries to take the edit lock on a file. It returns false when another
// user holds a live lock.
func (s *ArtHubService) Lock(path string) (bool, error) {
	if err := s.requireTeam(); err != nil {
		return false, err
	}
	ok, err := s.locks.Acquire(path, s.user, s.machine)
	if err != nil {
		return false, fmt.Errorf("acquiring lock: %w", err)
	}
	if ok {
		s.logger.Info("lock acquired", "path", path)
		s.logAction("lock", path, "")
	}
	return ok, nil
}

// Unlock drops the caller's lock on a file.
func (s *ArtHubService) Unlock(path string) error {
	if err := s.requireTeam(); err != nil {
		return err
	}
	if err := s.locks.Release(path, s.user); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	s.logger.Info("lock released", "path", path)
	s.logAction("unlock", path, "")
	return nil
}

// Heartbeat keeps the caller's lock alive. Clients editing a file call this
// well inside the timeout window.
func (s *ArtHubService) Heartbeat(path string) (bool, error) {
	if err := s.requireTeam(); err != nil {
		return false, err
	}
	return s.locks.Refresh(path, s.user)
}

// ActiveLocks lists every live lock on the shared root.
func (s *ArtHubService) ActiveLocks() ([]*FileLock, error) {
	if err := s.requireTeam(); err != nil {
		return nil, err
	}
	return s.locks.ListAll()
}

// SaveVersion snapshots a file's current bytes as its next version. It
// refuses while another user holds a live lock, which also keeps two
// clients from racing on the version counter.
func (s *ArtHubService) SaveVersion(path, comment string) (*FileVersion, error) {
	if err := s.requireTeam(); err != nil {
		return nil, err
	}
	if err := s.guardLock(path); err != nil {
		return nil, err
	}

	version, err := s.versions.Create(path, s.user, comment)
	if err != nil {
		return nil, fmt.Errorf("creating version: %w", err)
	}
	s.logger.Info("version created", "path", path, "version", version.Version)
	s.logAction("create_version", path, fmt.Sprintf(`{"version":%d}`, version.Version))
	return version, nil
}

// VersionHistory returns a file's version history, or nil when it has none.
func (s *ArtHubService) VersionHistory(path string) (*FileHistory, error) {
	if err := s.requireTeam(); err != nil {
		return nil, err
	}
	return s.versions.History(path)
}

// RestoreVersion copies an old snapshot of path to targetPath (or over the
// file itself when targetPath is empty). History is not rewritten; saving
// the restored state as a new version is a separate, explicit step.
func (s *ArtHubService) RestoreVersion(path string, version int, targetPath string) error {
	if err := s.requireTeam(); err != nil {
		return err
	}
	if targetPath == "" {
		targetPath = path
	}
	if err := s.guardLock(targetPath); err != nil {
		return err
	}

	if err := s.versions.Restore(path, version, targetPath); err != nil {
		return fmt.Errorf("restoring version %d: %w", version, err)
	}
	s.logger.Info("version restored", "path", path, "version", version, "target", targetPath)
	s.logAction("restore_version", path, fmt.Sprintf(`{"version":%d}`, version))
	return nil
}

// Role resolves a user's effective role, project grants first. An empty
// user means the caller.
func (s *ArtHubService) Role(user, projectPath string) (string, error) {
	if err := s.requireTeam(); err != nil {
		return "", err
	}
	if user == "" {
		user = s.user
	}
	cfg, err := s.perms.Load()
	if err != nil {
		return "", fmt.Errorf("loading permissions: %w", err)
	}
	return cfg.RoleFor(user, projectPath), nil
}

// SetRole grants a role, project-scoped when projectPath is non-empty.
func (s *ArtHubService) SetRole(user, role, projectPath string) error {
	if err := s.requireTeam(); err != nil {
		return err
	}
	switch role {
	case RoleViewer, RoleEditor, RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if user == "" {
		return fmt.Errorf("%w: empty user", ErrValidation)
	}

	if err := s.perms.Set(user, role, projectPath); err != nil {
		return fmt.Errorf("saving permissions: %w", err)
	}
	s.logger.Info("role set", "user", user, "role", role, "project", projectPath)
	s.logAction("set_permission", projectPath, fmt.Sprintf(`{"user":%q,"role":%q}`, user, role))
	return nil
}

// Activity returns the merged team journal from the given unix time on.
func (s *ArtHubService) Activity(since int64) ([]*ActionEntry, error) {
	if err := s.requireTeam(); err != nil {
		return nil, err
	}
	return s.activity.Since(since)
}
