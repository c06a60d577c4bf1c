package index

import (
	"fmt"
	"os"
	"path/filepath"

	"arthub-go/internal/arthub"
	"arthub-go/internal/config"
)

// NewIndexFromConfig creates an Index implementation based on the index
// config type. clientID names the database file so two clients pointed at
// the same data_dir never fight over one database.
func NewIndexFromConfig(cfg config.IndexConfig, clientID string) (arthub.Index, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite index")
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, clientID+".db")
		return NewSQLiteIndex(dbPath)
	case "memory":
		idx, err := NewSQLiteIndex(":memory:")
		if err != nil {
			return nil, err
		}
		// Nothing persists, so apply the schema right away.
		if err := idx.Migrate(); err != nil {
			idx.Close()
			return nil, err
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unknown index type: %s", cfg.Type)
	}
}
