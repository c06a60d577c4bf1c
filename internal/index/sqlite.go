// Package index stores asset metadata in a local SQLite database: tracked
// folders, scanned assets, and per-client curation state (tags, ratings,
// notes, favorites, smart folders).
package index

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"arthub-go/internal/arthub"
	"arthub-go/internal/index/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteIndex implements the Index interface using SQLite. Access goes
// through a read-write mutex: the scan pipeline upserts from a worker
// goroutine while queries arrive from the CLI, and SQLite allows only one
// writer at a time.
type SQLiteIndex struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Compile-time check that SQLiteIndex implements the Index interface.
var _ arthub.Index = (*SQLiteIndex)(nil)

// NewSQLiteIndex creates a new SQLite-backed index.
// path can be a file path or ":memory:" for an in-memory index.
func NewSQLiteIndex(path string) (*SQLiteIndex, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteIndex{db: db, path: path}, nil
}

// NewSQLiteIndexFromDB wraps an existing database connection. The caller is
// responsible for ensuring the connection is properly configured.
func NewSQLiteIndexFromDB(db *sql.DB) *SQLiteIndex {
	return &SQLiteIndex{db: db}
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the index relies on. Exported for tools and tests that need a properly
// configured connection. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single pooled connection. The index serializes access anyway, and
	// it keeps ":memory:" databases from silently splitting across pool
	// connections.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA cache_size = -8000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return db, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteIndex) Path() string {
	return s.path
}

// Migrate brings the index schema to the latest version.
func (s *SQLiteIndex) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the index schema is up-to-date.
func (s *SQLiteIndex) CheckMigrations() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

const assetColumns = "id, folder_id, file_path, file_name, file_ext, file_size, width, height, thumb_path, modified_at"

func scanAsset(row rowScanner) (*arthub.Asset, error) {
	var a arthub.Asset
	err := row.Scan(&a.ID, &a.FolderID, &a.FilePath, &a.FileName, &a.FileExt,
		&a.FileSize, &a.Width, &a.Height, &a.ThumbPath, &a.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
