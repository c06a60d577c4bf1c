package arthub

import "time"

// LockTimeout is the heartbeat liveness window. A lock whose heartbeat is
// at least this old counts as stale and may be reclaimed by anyone.
const LockTimeout = 300 * time.Second

// FileLock is the JSON record written to <root>/.arthub/locks/<key>.lock.
// Timestamps are unix seconds so records stay readable across clients.
type FileLock struct {
	FilePath  string `json:"file_path"`
	LockedBy  string `json:"locked_by"`
	Machine   string `json:"machine"`
	LockedAt  int64  `json:"locked_at"`
	Heartbeat int64  `json:"heartbeat"`
}

// Stale reports whether the lock's heartbeat has aged past LockTimeout.
func (l *FileLock) Stale(now time.Time) bool {
	return now.Unix()-l.Heartbeat >= int64(LockTimeout/time.Second)
}

// LockStatus is the answer to "may I edit this file?". A stale lock reports
// IsLocked false with the previous owner still filled in, so a client can
// show who abandoned it.
type LockStatus struct {
	IsLocked bool   `json:"is_locked"`
	LockedBy string `json:"locked_by,omitempty"`
	Machine  string `json:"machine,omitempty"`
	LockedAt int64  `json:"locked_at,omitempty"`
	IsStale  bool   `json:"is_stale"`
}

// FileVersion is one immutable snapshot entry in a file's history.
type FileVersion struct {
	Version      int    `json:"version"`
	Author       string `json:"author"`
	Timestamp    int64  `json:"timestamp"`
	Comment      string `json:"comment"`
	SnapshotName string `json:"snapshot_name"`
	FileSize     int64  `json:"file_size"`
}

// FileHistory is the history.json document for one file. Versions is
// append-only; CurrentVersion only ever grows, so version numbers stay
// unique even if old entries are ever pruned.
type FileHistory struct {
	FilePath       string         `json:"file_path"`
	CurrentVersion int            `json:"current_version"`
	Versions       []*FileVersion `json:"versions"`
}

// Permission grants one user one role.
type Permission struct {
	User string `json:"user"`
	Role string `json:"role"`
}

// ProjectPermission scopes a set of grants to one project path.
type ProjectPermission struct {
	ProjectPath string       `json:"project_path"`
	Permissions []Permission `json:"permissions"`
}

// PermissionsConfig is the whole permissions.json document.
type PermissionsConfig struct {
	Global   []Permission        `json:"global"`
	Projects []ProjectPermission `json:"projects"`
}

// Role names the service accepts. RoleViewer is also the fallback for users
// with no grant at all.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// RoleFor resolves a user's effective role: a project-scoped grant wins over
// a global grant, and everyone else is a viewer.
func (c *PermissionsConfig) RoleFor(user, projectPath string) string {
	if projectPath != "" {
		for _, p := range c.Projects {
			if p.ProjectPath != projectPath {
				continue
			}
			for _, perm := range p.Permissions {
				if perm.User == user {
					return perm.Role
				}
			}
		}
	}
	for _, perm := range c.Global {
		if perm.User == user {
			return perm.Role
		}
	}
	return RoleViewer
}

// ActionEntry is one line of a user's append-only actions.jsonl journal.
// Data is an opaque payload the writer chooses (usually JSON text).
type ActionEntry struct {
	Timestamp  int64  `json:"timestamp"`
	User       string `json:"user"`
	Machine    string `json:"machine"`
	Action     string `json:"action"`
	TargetPath string `json:"target_path"`
	Data       string `json:"data"`
}
