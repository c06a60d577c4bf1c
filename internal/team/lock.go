package team

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"arthub-go/internal/arthub"
)

// LockManager hands out advisory file locks in the shared space. A lock is
// one JSON file named by the path key; liveness is tracked with a heartbeat
// timestamp and locks whose heartbeat is older than arthub.LockTimeout are
// treated as abandoned.
type LockManager struct {
	root  string
	clock arthub.Clock
}

var _ arthub.LockManager = (*LockManager)(nil)

func NewLockManager(root string, clock arthub.Clock) *LockManager {
	return &LockManager{root: root, clock: clock}
}

func (m *LockManager) locksPath() string {
	return filepath.Join(m.root, metaDir, locksDir)
}

func (m *LockManager) lockPath(filePath string) string {
	return filepath.Join(m.locksPath(), arthub.PathKey(filePath)+".lock")
}

// readLock parses a lock file. A missing file yields (nil, false, nil); a
// file that exists but cannot be parsed yields (nil, true, nil) so callers
// can treat garbage as reclaimable instead of failing.
func (m *LockManager) readLock(path string) (*arthub.FileLock, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading lock file: %w", err)
	}
	var rec arthub.FileLock
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, true, nil
	}
	return &rec, false, nil
}

func (m *LockManager) writeLock(path string, rec *arthub.FileLock) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lock record: %w", err)
	}
	return writeFileAtomic(path, data)
}

// createExclusive writes a brand new lock file with O_EXCL so that when two
// machines race for an unlocked path, exactly one create succeeds. Returns
// false when another writer got there first.
func (m *LockManager) createExclusive(path string, rec *arthub.FileLock) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("creating lock file: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		f.Close()
		os.Remove(path)
		return false, fmt.Errorf("encoding lock record: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return false, fmt.Errorf("writing lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return false, fmt.Errorf("closing lock file: %w", err)
	}
	return true, nil
}

func newLock(filePath, user, machine string, now time.Time) *arthub.FileLock {
	ts := now.Unix()
	return &arthub.FileLock{
		FilePath:  filePath,
		LockedBy:  user,
		Machine:   machine,
		LockedAt:  ts,
		Heartbeat: ts,
	}
}

// Check reports the lock state of a path without changing it. An unreadable
// record reports as unlocked but stale so clients can show it as
// reclaimable.
func (m *LockManager) Check(filePath string) (*arthub.LockStatus, error) {
	rec, corrupt, err := m.readLock(m.lockPath(filePath))
	if err != nil {
		return nil, err
	}
	if corrupt {
		return &arthub.LockStatus{IsStale: true}, nil
	}
	if rec == nil {
		return &arthub.LockStatus{}, nil
	}
	stale := rec.Stale(m.clock.Now())
	return &arthub.LockStatus{
		IsLocked: !stale,
		LockedBy: rec.LockedBy,
		Machine:  rec.Machine,
		LockedAt: rec.LockedAt,
		IsStale:  stale,
	}, nil
}

// Acquire attempts to take the lock on filePath for user@machine. It
// returns true when the caller now holds the lock: fresh paths are claimed
// with an exclusive create, stale or unreadable locks are taken over, and
// re-acquiring a lock already held from the same seat just refreshes its
// heartbeat. A live lock held by anyone else returns false.
func (m *LockManager) Acquire(filePath, user, machine string) (bool, error) {
	lp := m.lockPath(filePath)
	if err := os.MkdirAll(filepath.Dir(lp), 0o755); err != nil {
		return false, fmt.Errorf("creating locks directory: %w", err)
	}

	for {
		rec, corrupt, err := m.readLock(lp)
		if err != nil {
			return false, err
		}
		now := m.clock.Now()

		switch {
		case rec == nil && !corrupt:
			created, err := m.createExclusive(lp, newLock(filePath, user, machine, now))
			if err != nil {
				return false, err
			}
			if created {
				return true, nil
			}
			// Lost the create race; re-read to judge the winner's record.
			continue
		case corrupt || rec.Stale(now):
			return true, m.writeLock(lp, newLock(filePath, user, machine, now))
		case rec.LockedBy == user && rec.Machine == machine:
			rec.Heartbeat = now.Unix()
			return true, m.writeLock(lp, rec)
		default:
			return false, nil
		}
	}
}

// Release removes the caller's lock. Releasing a path that is not locked is
// a no-op; releasing another user's lock fails. An unreadable record is
// removed regardless of owner since nobody can be said to hold it.
func (m *LockManager) Release(filePath, user string) error {
	lp := m.lockPath(filePath)
	rec, corrupt, err := m.readLock(lp)
	if err != nil {
		return err
	}
	if rec == nil && !corrupt {
		return nil
	}
	if rec != nil && rec.LockedBy != user {
		return fmt.Errorf("%w: %s holds the lock on %s", arthub.ErrLockHeld, rec.LockedBy, filePath)
	}
	if err := os.Remove(lp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}

// Refresh bumps the heartbeat on a lock the user already holds. It returns
// false without error when there is nothing to refresh: no lock, an
// unreadable record, or a lock owned by someone else.
func (m *LockManager) Refresh(filePath, user string) (bool, error) {
	lp := m.lockPath(filePath)
	rec, corrupt, err := m.readLock(lp)
	if err != nil {
		return false, err
	}
	if rec == nil || corrupt || rec.LockedBy != user {
		return false, nil
	}
	rec.Heartbeat = m.clock.Now().Unix()
	if err := m.writeLock(lp, rec); err != nil {
		return false, err
	}
	return true, nil
}

// ListAll returns every live lock in the space. Stale lock files are
// deleted as they are encountered so the directory does not accumulate
// leftovers from crashed clients; unreadable files are skipped.
func (m *LockManager) ListAll() ([]*arthub.FileLock, error) {
	dir := m.locksPath()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading locks directory: %w", err)
	}

	now := m.clock.Now()
	var locks []*arthub.FileLock
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lock" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		rec, corrupt, err := m.readLock(path)
		if err != nil || corrupt || rec == nil {
			continue
		}
		if rec.Stale(now) {
			os.Remove(path)
			continue
		}
		locks = append(locks, rec)
	}
	return locks, nil
}
