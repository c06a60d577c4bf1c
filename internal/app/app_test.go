package app

import (
	"errors"
	"path/filepath"
	"testing"

	"arthub-go/internal/arthub"
	"arthub-go/internal/config"
)

// testConfig returns a config backed entirely by temp directories, with an
// in-memory index and a shared root for team operations.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig("maya", "ws-1", "client-1", dir)
	cfg.Index = config.IndexConfig{Type: "memory"}
	cfg.SharedRoot = filepath.Join(dir, "shared")
	return cfg
}

func TestNewArtHubApp(t *testing.T) {
	a, err := NewArtHubApp(testConfig(t), "Test", false)
	if err != nil {
		t.Fatalf("NewArtHubApp() error = %v", err)
	}
	defer a.Close()

	// The index is wired and migrated.
	folder, err := a.AddFolder(t.TempDir(), "")
	if err != nil {
		t.Fatalf("AddFolder() error = %v", err)
	}
	if folder.ID == 0 {
		t.Error("AddFolder() returned zero id")
	}

	// The team ports are wired: a lock round-trip works.
	ok, err := a.Lock("chars/hero.psd")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if !ok {
		t.Error("Lock() = false, want true on free path")
	}
	if err := a.Unlock("chars/hero.psd"); err != nil {
		t.Errorf("Unlock() error = %v", err)
	}
}

func TestNewArtHubApp_SoloMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.SharedRoot = ""

	a, err := NewArtHubApp(cfg, "Test", false)
	if err != nil {
		t.Fatalf("NewArtHubApp() error = %v", err)
	}
	defer a.Close()

	// Index operations still work without a shared root.
	if _, err := a.Stats(); err != nil {
		t.Errorf("Stats() error = %v", err)
	}

	// Team operations fail fast.
	if _, err := a.Lock("chars/hero.psd"); !errors.Is(err, arthub.ErrNoSharedRoot) {
		t.Errorf("Lock() error = %v, want ErrNoSharedRoot", err)
	}
}

func TestMigrateIndex(t *testing.T) {
	cfg := testConfig(t)
	cfg.Index = config.IndexConfig{
		Type:    "sqlite",
		DataDir: filepath.Join(t.TempDir(), "db"),
	}

	// A fresh database has no schema yet.
	if err := IndexStatus(cfg); err == nil {
		t.Fatal("IndexStatus() on fresh database expected error")
	}

	// The app refuses to start on it.
	if _, err := NewArtHubApp(cfg, "Test", false); err == nil {
		t.Fatal("NewArtHubApp() on unmigrated database expected error")
	}

	if err := MigrateIndex(cfg); err != nil {
		t.Fatalf("MigrateIndex() error = %v", err)
	}
	if err := IndexStatus(cfg); err != nil {
		t.Errorf("IndexStatus() after migrate error = %v", err)
	}

	// Now the app starts.
	a, err := NewArtHubApp(cfg, "Test", false)
	if err != nil {
		t.Fatalf("NewArtHubApp() after migrate error = %v", err)
	}
	a.Close()
}
