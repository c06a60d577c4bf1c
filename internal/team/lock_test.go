package team

import (
	"errors"
	"os"
	"testing"
	"time"

	"arthub-go/internal/arthub"
	"arthub-go/internal/testutil"
)

func newLockTest(t *testing.T) (*LockManager, *testutil.StubClock) {
	t.Helper()
	clock := testutil.FixedClock()
	return NewLockManager(t.TempDir(), clock), clock
}

func TestLockManager_AcquireAndCheck(t *testing.T) {
	m, clock := newLockTest(t)

	ok, err := m.Acquire("assets/hero.psd", "alice", "workstation-1")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !ok {
		t.Fatal("Acquire() = false, want true for unlocked path")
	}

	status, err := m.Check("assets/hero.psd")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !status.IsLocked {
		t.Error("IsLocked = false, want true")
	}
	if status.LockedBy != "alice" {
		t.Errorf("LockedBy = %q, want %q", status.LockedBy, "alice")
	}
	if status.Machine != "workstation-1" {
		t.Errorf("Machine = %q, want %q", status.Machine, "workstation-1")
	}
	if status.LockedAt != clock.Now().Unix() {
		t.Errorf("LockedAt = %d, want %d", status.LockedAt, clock.Now().Unix())
	}
	if status.IsStale {
		t.Error("IsStale = true, want false for fresh lock")
	}
}

func TestLockManager_CheckUnlocked(t *testing.T) {
	m, _ := newLockTest(t)

	status, err := m.Check("assets/never-locked.png")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if status.IsLocked || status.IsStale || status.LockedBy != "" {
		t.Errorf("Check() = %+v, want zero status for unlocked path", status)
	}
}

func TestLockManager_MutualExclusion(t *testing.T) {
	m, _ := newLockTest(t)
	const path = "assets/shared.spine"

	if ok, err := m.Acquire(path, "alice", "ws-1"); err != nil || !ok {
		t.Fatalf("first Acquire() = %v, %v; want true, nil", ok, err)
	}

	ok, err := m.Acquire(path, "bob", "ws-2")
	if err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	if ok {
		t.Error("Acquire() = true for a live lock held by another user")
	}

	// Bob cannot release Alice's lock either.
	err = m.Release(path, "bob")
	if !errors.Is(err, arthub.ErrLockHeld) {
		t.Errorf("Release() error = %v, want ErrLockHeld", err)
	}

	if err := m.Release(path, "alice"); err != nil {
		t.Fatalf("owner Release() error = %v", err)
	}
	if ok, err := m.Acquire(path, "bob", "ws-2"); err != nil || !ok {
		t.Errorf("Acquire() after release = %v, %v; want true, nil", ok, err)
	}
}

func TestLockManager_ReacquireSameSeat(t *testing.T) {
	m, clock := newLockTest(t)
	const path = "assets/hero.psd"

	if ok, _ := m.Acquire(path, "alice", "ws-1"); !ok {
		t.Fatal("initial Acquire() = false")
	}
	lockedAt := clock.Now().Unix()

	clock.Advance(2 * time.Minute)
	ok, err := m.Acquire(path, "alice", "ws-1")
	if err != nil {
		t.Fatalf("re-Acquire() error = %v", err)
	}
	if !ok {
		t.Fatal("re-Acquire() from same seat = false, want true")
	}

	locks, err := m.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(locks) != 1 {
		t.Fatalf("ListAll() returned %d locks, want 1", len(locks))
	}
	if locks[0].Heartbeat != clock.Now().Unix() {
		t.Errorf("Heartbeat = %d, want refreshed to %d", locks[0].Heartbeat, clock.Now().Unix())
	}
	if locks[0].LockedAt != lockedAt {
		t.Errorf("LockedAt = %d, want original %d", locks[0].LockedAt, lockedAt)
	}
}

func TestLockManager_SameUserOtherMachine(t *testing.T) {
	m, _ := newLockTest(t)
	const path = "assets/hero.psd"

	if ok, _ := m.Acquire(path, "alice", "ws-1"); !ok {
		t.Fatal("initial Acquire() = false")
	}

	// The same user on a different machine is a different seat.
	ok, err := m.Acquire(path, "alice", "laptop")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if ok {
		t.Error("Acquire() = true from another machine while lock is live")
	}
}

func TestLockManager_StaleReclaim(t *testing.T) {
	m, clock := newLockTest(t)
	const path = "assets/abandoned.blend"

	if ok, _ := m.Acquire(path, "alice", "ws-1"); !ok {
		t.Fatal("initial Acquire() = false")
	}

	clock.Advance(arthub.LockTimeout)

	status, err := m.Check(path)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if status.IsLocked {
		t.Error("IsLocked = true at the staleness threshold, want false")
	}
	if !status.IsStale {
		t.Error("IsStale = false, want true")
	}
	if status.LockedBy != "alice" {
		t.Errorf("LockedBy = %q, want previous owner preserved", status.LockedBy)
	}

	ok, err := m.Acquire(path, "bob", "ws-2")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !ok {
		t.Fatal("Acquire() = false, want stale lock taken over")
	}

	status, err = m.Check(path)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !status.IsLocked || status.LockedBy != "bob" {
		t.Errorf("Check() after takeover = %+v, want live lock owned by bob", status)
	}
}

func TestLockManager_HeartbeatKeepsLockLive(t *testing.T) {
	m, clock := newLockTest(t)
	const path = "assets/hero.psd"

	if ok, _ := m.Acquire(path, "alice", "ws-1"); !ok {
		t.Fatal("Acquire() = false")
	}

	// Refresh just before the timeout, then advance past the original
	// deadline: the lock must still be live.
	clock.Advance(arthub.LockTimeout - time.Second)
	ok, err := m.Refresh(path, "alice")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !ok {
		t.Fatal("Refresh() = false, want true for own lock")
	}

	clock.Advance(2 * time.Second)
	status, err := m.Check(path)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !status.IsLocked {
		t.Error("IsLocked = false after refresh, want true")
	}
}

func TestLockManager_Refresh(t *testing.T) {
	t.Run("no lock", func(t *testing.T) {
		m, _ := newLockTest(t)
		ok, err := m.Refresh("assets/none.png", "alice")
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if ok {
			t.Error("Refresh() = true for unlocked path, want false")
		}
	})

	t.Run("someone else's lock", func(t *testing.T) {
		m, _ := newLockTest(t)
		if ok, _ := m.Acquire("assets/hero.psd", "alice", "ws-1"); !ok {
			t.Fatal("Acquire() = false")
		}
		ok, err := m.Refresh("assets/hero.psd", "bob")
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if ok {
			t.Error("Refresh() = true for another user's lock, want false")
		}
	})
}

func TestLockManager_ReleaseUnlocked(t *testing.T) {
	m, _ := newLockTest(t)
	if err := m.Release("assets/never-locked.png", "alice"); err != nil {
		t.Errorf("Release() on unlocked path error = %v, want nil", err)
	}
}

func TestLockManager_CorruptLockFile(t *testing.T) {
	m, _ := newLockTest(t)
	const path = "assets/garbled.psd"

	if err := os.MkdirAll(m.locksPath(), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(m.lockPath(path), []byte("not json{"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	status, err := m.Check(path)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if status.IsLocked {
		t.Error("IsLocked = true for unreadable lock, want false")
	}
	if !status.IsStale {
		t.Error("IsStale = false for unreadable lock, want true")
	}

	// Garbage is reclaimable.
	ok, err := m.Acquire(path, "bob", "ws-2")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !ok {
		t.Fatal("Acquire() = false over unreadable lock, want true")
	}
	status, _ = m.Check(path)
	if !status.IsLocked || status.LockedBy != "bob" {
		t.Errorf("Check() after takeover = %+v, want live lock owned by bob", status)
	}
}

func TestLockManager_ListAll(t *testing.T) {
	m, clock := newLockTest(t)

	if ok, _ := m.Acquire("assets/a.png", "alice", "ws-1"); !ok {
		t.Fatal("Acquire(a) = false")
	}
	clock.Advance(arthub.LockTimeout)
	// a is now stale; these two are fresh.
	if ok, _ := m.Acquire("assets/b.png", "bob", "ws-2"); !ok {
		t.Fatal("Acquire(b) = false")
	}
	if ok, _ := m.Acquire("assets/c.png", "carol", "ws-3"); !ok {
		t.Fatal("Acquire(c) = false")
	}

	locks, err := m.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(locks) != 2 {
		t.Fatalf("ListAll() returned %d locks, want 2 live", len(locks))
	}
	for _, l := range locks {
		if l.LockedBy == "alice" {
			t.Error("ListAll() included the stale lock")
		}
	}

	// The stale lock file was evicted from disk.
	if _, err := os.Stat(m.lockPath("assets/a.png")); !os.IsNotExist(err) {
		t.Errorf("stale lock file still present, stat error = %v", err)
	}
}

func TestLockManager_LockFileNaming(t *testing.T) {
	m, _ := newLockTest(t)

	// Windows and POSIX spellings of one path must contend for one lock.
	if ok, _ := m.Acquire(`Projects\Game\hero.psd`, "alice", "ws-1"); !ok {
		t.Fatal("Acquire() = false")
	}
	ok, err := m.Acquire("projects/game/hero.psd", "bob", "ws-2")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if ok {
		t.Error("Acquire() = true, want the path spellings to share one lock")
	}
}
