// Package scan discovers art assets on disk: it walks tracked folders,
// filters by the extensions artists actually work with, and honors ignore
// patterns from config and per-folder .arthubignore files.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"arthub-go/internal/arthub"
)

// Extensions the scanner picks up, grouped the way artists think about
// them: plain images, footage, and working files from DCC tools.
var (
	imageExts = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp", "tiff", "tif", "ico", "tga", "dds", "hdr", "exr", "svg"}
	videoExts = []string{"mp4", "mov", "avi", "mkv", "wmv", "webm", "flv"}
	proExts   = []string{"psd", "psb", "ai", "eps", "spine", "skel", "fbx", "obj", "gltf", "glb"}
)

// assetExts is the union of all groups, keyed by lowercase extension.
var assetExts = func() map[string]bool {
	m := make(map[string]bool)
	for _, group := range [][]string{imageExts, videoExts, proExts} {
		for _, ext := range group {
			m[ext] = true
		}
	}
	return m
}()

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
}

// FSScanner walks real directories. Dot-entries and tooling directories are
// skipped outright; everything else is filtered by extension and the ignore
// patterns.
type FSScanner struct {
	patterns []string
}

var _ arthub.Scanner = (*FSScanner)(nil)

// NewFSScanner creates a scanner with the given configured ignore patterns.
func NewFSScanner(ignorePatterns []string) *FSScanner {
	return &FSScanner{patterns: ignorePatterns}
}

// Scan returns every asset file under root, sorted case-insensitively by
// file name. A .arthubignore in the root extends the configured patterns
// for that folder only.
func (s *FSScanner) Scan(root string) ([]*arthub.ScannedFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", root)
	}

	extra, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	matcher := NewIgnoreMatcher(append(append([]string{}, s.patterns...), extra...))

	var files []*arthub.ScannedFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if !assetExts[ext] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}
		if matcher.Match(rel) {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		files = append(files, &arthub.ScannedFile{
			Path:     path,
			Name:     name,
			Ext:      ext,
			Size:     fileInfo.Size(),
			Modified: fileInfo.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
	})
	return files, nil
}
