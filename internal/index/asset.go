package index

import (
	"database/sql"
	"errors"
	"fmt"

	"arthub-go/internal/arthub"
)

// Asset operations

func (s *SQLiteIndex) UpsertAssets(batch []*arthub.AssetUpsert) error {
	if len(batch) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO assets
		(folder_id, file_path, file_name, file_ext, file_size, width, height, thumb_path, modified_at, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			folder_id = excluded.folder_id,
			file_name = excluded.file_name,
			file_ext = excluded.file_ext,
			file_size = excluded.file_size,
			width = excluded.width,
			height = excluded.height,
			thumb_path = excluded.thumb_path,
			modified_at = excluded.modified_at,
			scanned_at = excluded.scanned_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range batch {
		_, err := stmt.Exec(a.FolderID, a.FilePath, a.FileName, a.FileExt,
			a.FileSize, a.Width, a.Height, a.ThumbPath, a.ModifiedAt, a.ScannedAt)
		if err != nil {
			return fmt.Errorf("upserting %s: %w", a.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert batch: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) PruneFolderAssets(folderID, scannedBefore int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"DELETE FROM assets WHERE folder_id = ? AND scanned_at < ?",
		folderID, scannedBefore,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning assets: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking pruned rows: %w", err)
	}
	return affected, nil
}

func (s *SQLiteIndex) AssetByID(id int64) (*arthub.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAsset(id)
}

// getAsset fetches one asset by id. Callers hold the lock.
func (s *SQLiteIndex) getAsset(id int64) (*arthub.Asset, error) {
	row := s.db.QueryRow("SELECT "+assetColumns+" FROM assets WHERE id = ?", id)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding asset: %w", err)
	}
	return asset, nil
}

func (s *SQLiteIndex) AssetDetail(id int64) (*arthub.AssetDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, err := s.getAsset(id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, nil // Not found
	}

	tags, err := s.getAssetTags(id)
	if err != nil {
		return nil, err
	}

	var rating int
	err = s.db.QueryRow("SELECT rating FROM asset_ratings WHERE asset_id = ?", id).Scan(&rating)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading rating: %w", err)
	}

	var note string
	err = s.db.QueryRow("SELECT note FROM asset_notes WHERE asset_id = ?", id).Scan(&note)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading note: %w", err)
	}

	var favorite bool
	err = s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM asset_favorites WHERE asset_id = ?)", id).Scan(&favorite)
	if err != nil {
		return nil, fmt.Errorf("reading favorite flag: %w", err)
	}

	return &arthub.AssetDetail{
		Asset:    asset,
		Tags:     tags,
		Rating:   rating,
		Note:     note,
		Favorite: favorite,
	}, nil
}

func (s *SQLiteIndex) DeleteAssets(ids []int64) ([]string, int64, error) {
	if len(ids) == 0 {
		return nil, 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	args := int64Args(ids)
	in := placeholders(len(ids))

	rows, err := tx.Query("SELECT file_path FROM assets WHERE id IN ("+in+")", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("collecting asset paths: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scanning asset path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("iterating asset paths: %w", err)
	}
	rows.Close()

	res, err := tx.Exec("DELETE FROM assets WHERE id IN ("+in+")", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("deleting assets: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("checking deleted rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("committing transaction: %w", err)
	}
	return paths, affected, nil
}

func (s *SQLiteIndex) Stats() (*arthub.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &arthub.Stats{}
	err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(file_size), 0) FROM assets",
	).Scan(&stats.TotalAssets, &stats.TotalSize)
	if err != nil {
		return nil, fmt.Errorf("counting assets: %w", err)
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM folders").Scan(&stats.TotalFolders); err != nil {
		return nil, fmt.Errorf("counting folders: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT file_ext, COUNT(*) FROM assets GROUP BY file_ext ORDER BY COUNT(*) DESC, file_ext",
	)
	if err != nil {
		return nil, fmt.Errorf("counting formats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fc arthub.FormatCount
		if err := rows.Scan(&fc.Ext, &fc.Count); err != nil {
			return nil, fmt.Errorf("scanning format row: %w", err)
		}
		stats.FormatCounts = append(stats.FormatCounts, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating format rows: %w", err)
	}
	return stats, nil
}
