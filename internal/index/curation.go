package index

import (
	"database/sql"
	"errors"
	"fmt"

	"arthub-go/internal/arthub"
)

// Rating and note operations

func validRating(rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("%w: rating %d out of range 0..5", arthub.ErrValidation, rating)
	}
	return nil
}

func (s *SQLiteIndex) SetRating(assetID int64, rating int, user string) error {
	if err := validRating(rating); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRating(s.db.Exec, assetID, rating, user)
}

type execFunc func(query string, args ...any) (sql.Result, error)

// setRating applies one rating through the given exec. Callers hold the
// lock. A zero rating clears the row.
func (s *SQLiteIndex) setRating(exec execFunc, assetID int64, rating int, user string) error {
	if rating == 0 {
		if _, err := exec("DELETE FROM asset_ratings WHERE asset_id = ?", assetID); err != nil {
			return fmt.Errorf("clearing rating: %w", err)
		}
		return nil
	}
	_, err := exec(`INSERT INTO asset_ratings (asset_id, rating, rated_by) VALUES (?, ?, ?)
		ON CONFLICT(asset_id) DO UPDATE SET
			rating = excluded.rating,
			rated_by = excluded.rated_by,
			rated_at = strftime('%s', 'now')`,
		assetID, rating, user)
	if err != nil {
		return fmt.Errorf("setting rating: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) Rating(assetID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rating int
	err := s.db.QueryRow("SELECT rating FROM asset_ratings WHERE asset_id = ?", assetID).Scan(&rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil // Unrated
		}
		return 0, fmt.Errorf("reading rating: %w", err)
	}
	return rating, nil
}

func (s *SQLiteIndex) BatchRate(assetIDs []int64, rating int, user string) (int64, error) {
	if err := validRating(rating); err != nil {
		return 0, err
	}
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

	var applied int64
	for _, id := range assetIDs {
		if err := s.setRating(tx.Exec, id, rating, user); err != nil {
			// Unknown asset ids fail the foreign key check; skip them.
			continue
		}
		applied++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return applied, nil
}

func (s *SQLiteIndex) SetNote(assetID int64, note, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == "" {
		if _, err := s.db.Exec("DELETE FROM asset_notes WHERE asset_id = ?", assetID); err != nil {
			return fmt.Errorf("clearing note: %w", err)
		}
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO asset_notes (asset_id, note, updated_by) VALUES (?, ?, ?)
		ON CONFLICT(asset_id) DO UPDATE SET
			note = excluded.note,
			updated_by = excluded.updated_by,
			updated_at = strftime('%s', 'now')`,
		assetID, note, user)
	if err != nil {
		return fmt.Errorf("setting note: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) Note(assetID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var note string
	err := s.db.QueryRow("SELECT note FROM asset_notes WHERE asset_id = ?", assetID).Scan(&note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil // No note
		}
		return "", fmt.Errorf("reading note: %w", err)
	}
	return note, nil
}

// Favorite operations

func (s *SQLiteIndex) ToggleFavorite(assetID int64, user string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var favorite bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM asset_favorites WHERE asset_id = ?)", assetID).Scan(&favorite)
	if err != nil {
		return false, fmt.Errorf("reading favorite flag: %w", err)
	}

	if favorite {
		if _, err := s.db.Exec("DELETE FROM asset_favorites WHERE asset_id = ?", assetID); err != nil {
			return false, fmt.Errorf("clearing favorite: %w", err)
		}
		return false, nil
	}
	_, err = s.db.Exec("INSERT INTO asset_favorites (asset_id, marked_by) VALUES (?, ?)", assetID, user)
	if err != nil {
		return false, fmt.Errorf("setting favorite: %w", err)
	}
	return true, nil
}

func (s *SQLiteIndex) IsFavorite(assetID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var favorite bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM asset_favorites WHERE asset_id = ?)", assetID).Scan(&favorite)
	if err != nil {
		return false, fmt.Errorf("reading favorite flag: %w", err)
	}
	return favorite, nil
}

func (s *SQLiteIndex) FavoriteIDs() ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT asset_id FROM asset_favorites ORDER BY asset_id")
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorite rows: %w", err)
	}
	return ids, nil
}

func (s *SQLiteIndex) SetFavorites(assetIDs []int64, favorite bool, user string) (int64, error) {
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

	query := "INSERT OR IGNORE INTO asset_favorites (asset_id, marked_by) VALUES (?, ?)"
	if !favorite {
		query = "DELETE FROM asset_favorites WHERE asset_id = ?"
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("preparing batch: %w", err)
	}
	defer stmt.Close()

	var changed int64
	for _, id := range assetIDs {
		var res sql.Result
		if favorite {
			res, err = stmt.Exec(id, user)
		} else {
			res, err = stmt.Exec(id)
		}
		if err != nil {
			// Unknown asset ids fail the foreign key check; skip them.
			continue
		}
		if affected, err := res.RowsAffected(); err == nil {
			changed += affected
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return changed, nil
}
