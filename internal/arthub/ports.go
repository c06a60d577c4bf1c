package arthub

// LockManager coordinates soft, advisory file locks over the shared root.
// There is no in-process serialization here: contention between machines is
// resolved by exclusive file creation and the heartbeat protocol.
type LockManager interface {
	// Check reports the lock state of a path without changing it.
	// A missing or unreadable record reports "not locked".
	Check(path string) (*LockStatus, error)

	// Acquire takes the lock for user@machine. It succeeds when the path is
	// unlocked, when the existing lock is stale or corrupt, or when the
	// caller already holds it (which refreshes the heartbeat). It returns
	// false, nil when another holder's lock is live.
	Acquire(path, user, machine string) (bool, error)

	// Release drops the caller's lock. Releasing an unlocked path is a
	// no-op; releasing another user's live lock fails with ErrLockHeld.
	Release(path, user string) error

	// Refresh bumps the heartbeat on a lock the user holds. It returns
	// false, nil when there is no such lock to refresh.
	Refresh(path, user string) (bool, error)

	// ListAll returns every live lock under the root, deleting stale lock
	// files as it goes.
	ListAll() ([]*FileLock, error)
}

// VersionStore keeps immutable snapshot versions of files on the shared root.
type VersionStore interface {
	// History returns a file's version history, or nil when the file has
	// never been versioned.
	History(path string) (*FileHistory, error)

	// Create snapshots the file's current bytes as the next version.
	Create(path, author, comment string) (*FileVersion, error)

	// Restore copies the snapshot for the given version number to
	// targetPath. The history itself is never modified.
	Restore(path string, version int, targetPath string) error
}

// PermissionStore persists the team's role grants.
type PermissionStore interface {
	// Load reads permissions.json; a missing file is an empty config.
	Load() (*PermissionsConfig, error)

	// Set upserts a grant, project-scoped when projectPath is non-empty.
	Set(user, role, projectPath string) error
}

// ActivityLog is the per-user append-only journal of team actions.
type ActivityLog interface {
	// Append writes one entry to the user's journal, stamped with the
	// current time.
	Append(user, machine, action, targetPath, data string) error

	// Since merges every user's journal into one timestamp-ordered slice,
	// keeping entries with timestamp >= since and skipping lines that do
	// not parse.
	Since(since int64) ([]*ActionEntry, error)
}

// Scanner walks a directory tree and reports the supported files in it,
// sorted by name for deterministic scan output.
type Scanner interface {
	Scan(root string) ([]*ScannedFile, error)
}

// Thumbnailer maintains the thumbnail cache.
type Thumbnailer interface {
	// CanGenerate reports whether the extension is a decodable image type.
	CanGenerate(ext string) bool

	// Generate returns the cached thumbnail for path, creating it if
	// needed, along with the source image dimensions.
	Generate(path string) (*Thumbnail, error)

	// Remove drops the cached thumbnails for the given source paths.
	Remove(paths []string)
}
