package app

import (
	"fmt"
	"os"

	"arthub-go/internal/arthub"
	"arthub-go/internal/config"
	"arthub-go/internal/index"
	"arthub-go/internal/scan"
	"arthub-go/internal/team"
	"arthub-go/internal/thumb"

	"github.com/google/uuid"
)

// ArtHubApp is the application layer between the CLI and ArtHubService.
// It constructs all dependencies from config and manages the index and log
// file lifecycle on Close. The service itself is embedded, so every asset
// and team operation is available directly on the app.
type ArtHubApp struct {
	*arthub.ArtHubService

	cfg     *config.Config
	index   arthub.Index
	logFile *os.File
}

// NewArtHubApp creates a fully wired ArtHubApp from the given config.
// operation identifies the CLI command being run (e.g. "Scan", "Lock");
// it is attached to every log line of this run. The caller must call
// Close when done.
func NewArtHubApp(cfg *config.Config, operation string, verbose bool) (*ArtHubApp, error) {
	idx, err := index.NewIndexFromConfig(cfg.Index, cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	if err := idx.CheckMigrations(); err != nil {
		idx.Close()
		return nil, fmt.Errorf("index schema out of date (run 'arthub db migrate'): %w", err)
	}

	// Team ports stay nil in solo mode; the service fails team operations
	// with ErrNoSharedRoot.
	var (
		locks    arthub.LockManager
		versions arthub.VersionStore
		perms    arthub.PermissionStore
		activity arthub.ActivityLog
	)
	if cfg.SharedRoot != "" {
		clock := arthub.RealClock{}
		locks = team.NewLockManager(cfg.SharedRoot, clock)
		versions = team.NewVersionStore(cfg.SharedRoot, clock)
		perms = team.NewPermissionStore(cfg.SharedRoot)
		activity = team.NewActivityJournal(cfg.SharedRoot, clock)
	}

	runID := uuid.New().String()[:8]
	logger, logFile, err := newLogger(cfg.LogDir, runID, verbose)
	if err != nil {
		idx.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := arthub.NewArtHubService(
		idx,
		locks,
		versions,
		perms,
		activity,
		scan.NewFSScanner(cfg.Scanner.Ignore),
		thumb.NewGenerator(cfg.Thumbnails.Dir, cfg.ThumbWidth()),
		&slogAdapter{l: logger.With("op", operation)},
		arthub.RealClock{},
		cfg.User,
		cfg.Machine,
	)

	return &ArtHubApp{
		ArtHubService: svc,
		cfg:           cfg,
		index:         idx,
		logFile:       logFile,
	}, nil
}

// Config returns the config the app was built from.
func (a *ArtHubApp) Config() *config.Config {
	return a.cfg
}

// Close closes the index connection and the log file.
func (a *ArtHubApp) Close() error {
	var firstErr error

	if err := a.index.Close(); err != nil {
		firstErr = fmt.Errorf("closing index: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// MigrateIndex brings the configured index database to the latest schema
// version, creating the database file if needed. It does not go through
// NewArtHubApp, which refuses to start on an out-of-date schema.
func MigrateIndex(cfg *config.Config) error {
	idx, err := index.NewIndexFromConfig(cfg.Index, cfg.ClientID)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	defer idx.Close()

	if err := idx.Migrate(); err != nil {
		return fmt.Errorf("migrating index: %w", err)
	}
	return nil
}

// IndexStatus reports whether the configured index database schema is up to
// date. A nil error means current.
func IndexStatus(cfg *config.Config) error {
	idx, err := index.NewIndexFromConfig(cfg.Index, cfg.ClientID)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	defer idx.Close()

	return idx.CheckMigrations()
}
