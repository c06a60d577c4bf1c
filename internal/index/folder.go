package index

import (
	"database/sql"
	"errors"
	"fmt"

	"arthub-go/internal/arthub"
)

// Folder operations

const folderColumns = `f.id, f.path, f.name, f.space_type, COUNT(a.id)
	FROM folders f
	LEFT JOIN assets a ON a.folder_id = f.id`

func (s *SQLiteIndex) InsertFolder(path, name, spaceType string) (*arthub.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO folders (path, name, space_type) VALUES (?, ?, ?) ON CONFLICT(path) DO NOTHING",
		path, name, spaceType,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting folder: %w", err)
	}

	// Read back through the unique path so re-adding a tracked directory
	// returns the existing row.
	folder, err := s.getFolder("f.path = ?", path)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, fmt.Errorf("reading folder back: row for %s missing", path)
	}
	return folder, nil
}

func (s *SQLiteIndex) Folders(spaceType string) ([]*arthub.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + folderColumns
	var args []any
	if spaceType != "" {
		query += " WHERE f.space_type = ?"
		args = append(args, spaceType)
	}
	query += " GROUP BY f.id ORDER BY f.name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	defer rows.Close()

	var folders []*arthub.Folder
	for rows.Next() {
		var f arthub.Folder
		if err := rows.Scan(&f.ID, &f.Path, &f.Name, &f.SpaceType, &f.AssetCount); err != nil {
			return nil, fmt.Errorf("scanning folder row: %w", err)
		}
		folders = append(folders, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating folder rows: %w", err)
	}
	return folders, nil
}

func (s *SQLiteIndex) FolderByID(id int64) (*arthub.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getFolder("f.id = ?", id)
}

// getFolder fetches one folder by an arbitrary condition. Callers hold the
// lock.
func (s *SQLiteIndex) getFolder(cond string, arg any) (*arthub.Folder, error) {
	query := "SELECT " + folderColumns + " WHERE " + cond + " GROUP BY f.id"
	var f arthub.Folder
	err := s.db.QueryRow(query, arg).Scan(&f.ID, &f.Path, &f.Name, &f.SpaceType, &f.AssetCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding folder: %w", err)
	}
	return &f, nil
}

func (s *SQLiteIndex) RemoveFolder(id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Collect the asset paths first so the caller can clean up thumbnails
	// after the cascade wipes the rows.
	rows, err := tx.Query("SELECT file_path FROM assets WHERE folder_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("collecting asset paths: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning asset path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating asset paths: %w", err)
	}
	rows.Close()

	res, err := tx.Exec("DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("deleting folder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: folder %d", arthub.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return paths, nil
}
