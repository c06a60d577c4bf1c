package arthub

import (
	"context"
	"fmt"
)

// scanBatchSize bounds the rows written per index transaction during a scan.
const scanBatchSize = 20

// Scan re-indexes one folder: walk the tree, refresh thumbnails for
// decodable images, upsert everything in batches, then prune rows for files
// the scan no longer saw. Existing rows keep their ids, so tags and ratings
// survive. Progress events are sent without blocking; when the channel is
// full (or nil) they are dropped rather than stalling the scan.
func (s *ArtHubService) Scan(ctx context.Context, folderID int64, progress chan<- ScanProgress) (int, error) {
	folder, err := s.index.FolderByID(folderID)
	if err != nil {
		return 0, fmt.Errorf("loading folder: %w", err)
	}
	if folder == nil {
		return 0, fmt.Errorf("%w: folder %d", ErrNotFound, folderID)
	}

	started := s.clock.Now().Unix()
	s.logger.Info("scan started", "folder", folder.Path)

	files, err := s.scanner.Scan(folder.Path)
	if err != nil {
		return 0, fmt.Errorf("scanning %s: %w", folder.Path, err)
	}
	total := len(files)
	emit(progress, ScanProgress{FolderID: folderID, Total: total, Phase: PhaseScanning})

	processed := 0
	batch := make([]*AssetUpsert, 0, scanBatchSize)
	flush := func(last string) error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.index.UpsertAssets(batch); err != nil {
			return fmt.Errorf("writing scan batch: %w", err)
		}
		processed += len(batch)
		batch = batch[:0]
		emit(progress, ScanProgress{FolderID: folderID, Current: processed, Total: total, FileName: last, Phase: PhaseThumbnails})
		return nil
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return processed, fmt.Errorf("scan canceled: %w", err)
		}

		var thumbPath string
		var width, height int
		if s.thumbs.CanGenerate(f.Ext) {
			if t, terr := s.thumbs.Generate(f.Path); terr == nil {
				thumbPath, width, height = t.ThumbPath, t.Width, t.Height
			} else {
				s.logger.Debug("thumbnail skipped", "path", f.Path, "error", terr)
			}
		}

		batch = append(batch, &AssetUpsert{
			FolderID:   folderID,
			FilePath:   f.Path,
			FileName:   f.Name,
			FileExt:    f.Ext,
			FileSize:   f.Size,
			Width:      width,
			Height:     height,
			ThumbPath:  thumbPath,
			ModifiedAt: f.Modified,
			ScannedAt:  s.clock.Now().Unix(),
		})
		if len(batch) >= scanBatchSize {
			if err := flush(f.Name); err != nil {
				return processed, err
			}
		}
	}
	if err := flush(""); err != nil {
		return processed, err
	}

	pruned, err := s.index.PruneFolderAssets(folderID, started)
	if err != nil {
		return processed, fmt.Errorf("pruning vanished assets: %w", err)
	}

	emit(progress, ScanProgress{FolderID: folderID, Current: processed, Total: total, Phase: PhaseComplete})
	s.logger.Info("scan complete", "folder", folder.Path, "indexed", processed, "pruned", pruned)
	s.logAction("scan", folder.Path, fmt.Sprintf(`{"indexed":%d,"pruned":%d}`, processed, pruned))
	return processed, nil
}

// emit delivers a progress event if the channel has room.
func emit(ch chan<- ScanProgress, p ScanProgress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
	}
}
