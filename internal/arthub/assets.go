package arthub

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// defaultTagColor is used when a tag is created without an explicit color.
const defaultTagColor = "#6b7280"

// Query returns one page of assets matching the params.
func (s *ArtHubService) Query(p QueryParams) (*QueryResult, error) {
	return s.index.Query(p)
}

// AssetDetail returns an asset with its tags, rating, note and favorite flag.
func (s *ArtHubService) AssetDetail(id int64) (*AssetDetail, error) {
	detail, err := s.index.AssetDetail(id)
	if err != nil {
		return nil, fmt.Errorf("loading asset detail: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: asset %d", ErrNotFound, id)
	}
	return detail, nil
}

// ensureAsset fails with ErrNotFound when the asset id is unknown.
func (s *ArtHubService) ensureAsset(id int64) error {
	asset, err := s.index.AssetByID(id)
	if err != nil {
		return fmt.Errorf("loading asset: %w", err)
	}
	if asset == nil {
		return fmt.Errorf("%w: asset %d", ErrNotFound, id)
	}
	return nil
}

// Tag operations

// CreateTag creates (or finds) a tag by name.
func (s *ArtHubService) CreateTag(name, color string) (*Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty tag name", ErrValidation)
	}
	if color == "" {
		color = defaultTagColor
	}
	return s.index.CreateTag(name, color)
}

// UpdateTag renames or recolors a tag.
func (s *ArtHubService) UpdateTag(id int64, name, color string) error {
	if name == "" {
		return fmt.Errorf("%w: empty tag name", ErrValidation)
	}
	return s.index.UpdateTag(id, name, color)
}

// DeleteTag removes a tag everywhere.
func (s *ArtHubService) DeleteTag(id int64) error {
	return s.index.DeleteTag(id)
}

// Tags lists all tags with usage counts.
func (s *ArtHubService) Tags() ([]*Tag, error) {
	return s.index.Tags()
}

// TagAsset attaches a tag to an asset.
func (s *ArtHubService) TagAsset(assetID, tagID int64) error {
	if err := s.ensureAsset(assetID); err != nil {
		return err
	}
	return s.index.AddTag(assetID, tagID, s.user)
}

// UntagAsset detaches a tag from an asset.
func (s *ArtHubService) UntagAsset(assetID, tagID int64) error {
	return s.index.RemoveTag(assetID, tagID)
}

// BatchTag attaches one tag to many assets.
func (s *ArtHubService) BatchTag(assetIDs []int64, tagID int64) (int64, error) {
	return s.index.BatchTag(assetIDs, tagID, s.user)
}

// Rating, note and favorite operations

// Rate sets an asset's rating; 0 clears it.
func (s *ArtHubService) Rate(assetID int64, rating int) error {
	if err := s.ensureAsset(assetID); err != nil {
		return err
	}
	return s.index.SetRating(assetID, rating, s.user)
}

// BatchRate applies one rating to many assets.
func (s *ArtHubService) BatchRate(assetIDs []int64, rating int) (int64, error) {
	return s.index.BatchRate(assetIDs, rating, s.user)
}

// SetNote sets an asset's note; an empty note clears it.
func (s *ArtHubService) SetNote(assetID int64, note string) error {
	if err := s.ensureAsset(assetID); err != nil {
		return err
	}
	return s.index.SetNote(assetID, note, s.user)
}

// ToggleFavorite flips an asset's favorite flag and returns the new state.
func (s *ArtHubService) ToggleFavorite(assetID int64) (bool, error) {
	if err := s.ensureAsset(assetID); err != nil {
		return false, err
	}
	return s.index.ToggleFavorite(assetID, s.user)
}

// FavoriteIDs returns the ids of all favorited assets.
func (s *ArtHubService) FavoriteIDs() ([]int64, error) {
	return s.index.FavoriteIDs()
}

// BatchFavorite sets the favorite flag on many assets.
func (s *ArtHubService) BatchFavorite(assetIDs []int64, favorite bool) (int64, error) {
	return s.index.SetFavorites(assetIDs, favorite, s.user)
}

// Smart folder operations

// CreateSmartFolder saves a query under a name.
func (s *ArtHubService) CreateSmartFolder(name string, p QueryParams, spaceType string) (*SmartFolder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty smart folder name", ErrValidation)
	}
	if spaceType == "" {
		spaceType = SpacePersonal
	}
	conditions, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding conditions: %w", err)
	}
	return s.index.CreateSmartFolder(name, string(conditions), spaceType)
}

// UpdateSmartFolder replaces a saved query's name and conditions.
func (s *ArtHubService) UpdateSmartFolder(id int64, name string, p QueryParams) error {
	if name == "" {
		return fmt.Errorf("%w: empty smart folder name", ErrValidation)
	}
	conditions, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding conditions: %w", err)
	}
	return s.index.UpdateSmartFolder(id, name, string(conditions))
}

// SmartFolders lists saved queries.
func (s *ArtHubService) SmartFolders(spaceType string) ([]*SmartFolder, error) {
	return s.index.SmartFolders(spaceType)
}

// DeleteSmartFolder removes a saved query.
func (s *ArtHubService) DeleteSmartFolder(id int64) error {
	return s.index.DeleteSmartFolder(id)
}

// RunSmartFolder executes a saved query with fresh paging.
func (s *ArtHubService) RunSmartFolder(id, page, pageSize int64) (*QueryResult, error) {
	sf, err := s.index.SmartFolderByID(id)
	if err != nil {
		return nil, fmt.Errorf("loading smart folder: %w", err)
	}
	if sf == nil {
		return nil, fmt.Errorf("%w: smart folder %d", ErrNotFound, id)
	}

	var p QueryParams
	if err := json.Unmarshal([]byte(sf.Conditions), &p); err != nil {
		return nil, fmt.Errorf("%w: smart folder %d conditions: %v", ErrCorrupt, id, err)
	}
	p.Page = page
	p.PageSize = pageSize
	return s.index.Query(p)
}

// Batch removal and export

// DeleteAssets removes index rows and their cached thumbnails. The files on
// disk are untouched.
func (s *ArtHubService) DeleteAssets(ids []int64) (int64, error) {
	paths, n, err := s.index.DeleteAssets(ids)
	if err != nil {
		return 0, fmt.Errorf("deleting assets: %w", err)
	}
	s.thumbs.Remove(paths)
	s.logger.Info("assets deleted", "requested", len(ids), "deleted", n)
	s.logAction("delete_assets", "", fmt.Sprintf(`{"count":%d}`, n))
	return n, nil
}

// Export copies the given assets' files into targetDir. Name collisions are
// resolved by suffixing: hero.png, hero_1.png, hero_2.png. Assets whose
// source file cannot be read are skipped; the count of copies is returned.
func (s *ArtHubService) Export(ids []int64, targetDir string) (int, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating export directory: %w", err)
	}

	count := 0
	for _, id := range ids {
		asset, err := s.index.AssetByID(id)
		if err != nil {
			return count, fmt.Errorf("loading asset %d: %w", id, err)
		}
		if asset == nil {
			continue
		}

		dest := filepath.Join(targetDir, asset.FileName)
		if _, err := os.Stat(dest); err == nil {
			dest = nextFreeName(targetDir, asset.FileName)
		}
		if err := copyFile(asset.FilePath, dest); err != nil {
			s.logger.Warn("export skipped", "path", asset.FilePath, "error", err)
			continue
		}
		count++
	}

	s.logger.Info("assets exported", "requested", len(ids), "copied", count, "target", targetDir)
	s.logAction("export_assets", targetDir, fmt.Sprintf(`{"count":%d}`, count))
	return count, nil
}

// nextFreeName finds the first hero_N.png style name not yet taken in dir.
func nextFreeName(dir, name string) string {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		dest := filepath.Join(dir, candidate)
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return dest
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying: %w", err)
	}
	return out.Close()
}
