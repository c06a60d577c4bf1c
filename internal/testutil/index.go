package testutil

import (
	"testing"

	"arthub-go/internal/arthub"
	"arthub-go/internal/index"
)

// NewTestIndex creates a new in-memory SQLite index with migrations applied.
// The index is automatically closed when the test completes.
func NewTestIndex(t *testing.T) arthub.Index {
	t.Helper()

	idx, err := index.NewSQLiteIndex(":memory:")
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	if err := idx.Migrate(); err != nil {
		idx.Close()
		t.Fatalf("failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		idx.Close()
	})

	return idx
}
