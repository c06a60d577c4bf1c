// Package team implements the shared-filesystem coordination layer: soft
// file locks, version snapshots, role grants and the per-user action
// journal, all stored as plain files under <root>/.arthub/ on a shared
// mount. There is deliberately no in-process serialization here; machines
// coordinate only through exclusive file creation, whole-file atomic
// replacement and the lock heartbeat protocol.
package team

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout under the shared root.
const (
	metaDir         = ".arthub"
	locksDir        = "locks"
	versionsDir     = "versions"
	usersDir        = "users"
	permissionsFile = "permissions.json"
)

// writeFileAtomic replaces path via a temp file + rename in the same
// directory, so a reader on another machine never sees a torn record.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	success = true
	return nil
}
