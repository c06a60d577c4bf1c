package index

import (
	"fmt"

	"arthub-go/internal/arthub"
)

// Tag operations

func (s *SQLiteIndex) CreateTag(name, color string) (*arthub.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("INSERT OR IGNORE INTO tags (name, color) VALUES (?, ?)", name, color); err != nil {
		return nil, fmt.Errorf("inserting tag: %w", err)
	}

	// Read back through the NOCASE unique index so "Hero" and "hero"
	// resolve to the same tag.
	var t arthub.Tag
	err := s.db.QueryRow("SELECT id, name, color FROM tags WHERE name = ?", name).
		Scan(&t.ID, &t.Name, &t.Color)
	if err != nil {
		return nil, fmt.Errorf("reading tag back: %w", err)
	}
	return &t, nil
}

func (s *SQLiteIndex) UpdateTag(id int64, name, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE tags SET name = ?, color = ? WHERE id = ?", name, color, id)
	if err != nil {
		return fmt.Errorf("updating tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: tag %d", arthub.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteIndex) DeleteTag(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: tag %d", arthub.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteIndex) Tags() ([]*arthub.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT t.id, t.name, t.color, COUNT(at.asset_id)
		FROM tags t
		LEFT JOIN asset_tags at ON at.tag_id = t.id
		GROUP BY t.id
		ORDER BY COUNT(at.asset_id) DESC, t.name`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []*arthub.Tag
	for rows.Next() {
		var t arthub.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.AssetCount); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

func (s *SQLiteIndex) TagsForAsset(assetID int64) ([]*arthub.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAssetTags(assetID)
}

// getAssetTags lists one asset's tags. Callers hold the lock.
func (s *SQLiteIndex) getAssetTags(assetID int64) ([]*arthub.Tag, error) {
	rows, err := s.db.Query(`SELECT t.id, t.name, t.color
		FROM tags t
		JOIN asset_tags at ON at.tag_id = t.id
		WHERE at.asset_id = ?
		ORDER BY t.name`, assetID)
	if err != nil {
		return nil, fmt.Errorf("listing asset tags: %w", err)
	}
	defer rows.Close()

	var tags []*arthub.Tag
	for rows.Next() {
		var t arthub.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

func (s *SQLiteIndex) AddTag(assetID, tagID int64, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO asset_tags (asset_id, tag_id, tagged_by) VALUES (?, ?, ?)",
		assetID, tagID, user,
	)
	if err != nil {
		return fmt.Errorf("attaching tag: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) RemoveTag(assetID, tagID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM asset_tags WHERE asset_id = ? AND tag_id = ?", assetID, tagID)
	if err != nil {
		return fmt.Errorf("detaching tag: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) BatchTag(assetIDs []int64, tagID int64, user string) (int64, error) {
	if len(assetIDs) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO asset_tags (asset_id, tag_id, tagged_by) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing batch: %w", err)
	}
	defer stmt.Close()

	var attached int64
	for _, id := range assetIDs {
		res, err := stmt.Exec(id, tagID, user)
		if err != nil {
			// Unknown asset ids fail the foreign key check; skip them.
			continue
		}
		if affected, err := res.RowsAffected(); err == nil {
			attached += affected
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return attached, nil
}
