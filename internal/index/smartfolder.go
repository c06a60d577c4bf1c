package index

import (
	"database/sql"
	"errors"
	"fmt"

	"arthub-go/internal/arthub"
)

// Smart folder operations

const smartFolderColumns = "id, name, icon, conditions, space_type"

func (s *SQLiteIndex) CreateSmartFolder(name, conditions, spaceType string) (*arthub.SmartFolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"INSERT INTO smart_folders (name, conditions, space_type) VALUES (?, ?, ?)",
		name, conditions, spaceType,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting smart folder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new smart folder id: %w", err)
	}
	return s.getSmartFolder(id)
}

func (s *SQLiteIndex) UpdateSmartFolder(id int64, name, conditions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE smart_folders SET name = ?, conditions = ? WHERE id = ?", name, conditions, id)
	if err != nil {
		return fmt.Errorf("updating smart folder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: smart folder %d", arthub.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteIndex) DeleteSmartFolder(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM smart_folders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting smart folder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: smart folder %d", arthub.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteIndex) SmartFolderByID(id int64) (*arthub.SmartFolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSmartFolder(id)
}

// getSmartFolder fetches one saved query by id. Callers hold the lock.
func (s *SQLiteIndex) getSmartFolder(id int64) (*arthub.SmartFolder, error) {
	var sf arthub.SmartFolder
	err := s.db.QueryRow("SELECT "+smartFolderColumns+" FROM smart_folders WHERE id = ?", id).
		Scan(&sf.ID, &sf.Name, &sf.Icon, &sf.Conditions, &sf.SpaceType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding smart folder: %w", err)
	}
	return &sf, nil
}

func (s *SQLiteIndex) SmartFolders(spaceType string) ([]*arthub.SmartFolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + smartFolderColumns + " FROM smart_folders"
	var args []any
	if spaceType != "" {
		query += " WHERE space_type = ?"
		args = append(args, spaceType)
	}
	query += " ORDER BY name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing smart folders: %w", err)
	}
	defer rows.Close()

	var folders []*arthub.SmartFolder
	for rows.Next() {
		var sf arthub.SmartFolder
		if err := rows.Scan(&sf.ID, &sf.Name, &sf.Icon, &sf.Conditions, &sf.SpaceType); err != nil {
			return nil, fmt.Errorf("scanning smart folder row: %w", err)
		}
		folders = append(folders, &sf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating smart folder rows: %w", err)
	}
	return folders, nil
}
