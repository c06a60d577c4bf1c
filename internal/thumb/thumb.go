// Package thumb maintains the thumbnail cache: one JPEG per source image,
// named by the path key, scaled down to a configured width.
package thumb

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/png"

	"arthub-go/internal/arthub"
)

const jpegQuality = 85

// decodableExts are the extensions a registered decoder handles. Working
// formats like psd or tga classify as images but cannot be thumbnailed.
var decodableExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"bmp": true, "webp": true, "tiff": true, "tif": true,
}

// Generator caches thumbnails in a single flat directory.
type Generator struct {
	dir      string
	maxWidth int
}

var _ arthub.Thumbnailer = (*Generator)(nil)

// NewGenerator creates a Generator writing into dir. The directory itself
// is created lazily on the first Generate.
func NewGenerator(dir string, maxWidth int) *Generator {
	return &Generator{dir: dir, maxWidth: maxWidth}
}

// ThumbPath returns the cache file for a source path without generating
// anything.
func (g *Generator) ThumbPath(path string) string {
	return filepath.Join(g.dir, arthub.PathKey(path)+".jpg")
}

// CanGenerate reports whether a decoder is registered for the extension.
func (g *Generator) CanGenerate(ext string) bool {
	return decodableExts[strings.ToLower(ext)]
}

// Generate returns the thumbnail for path, reusing the cached file when one
// exists. The returned dimensions are always the source image's, not the
// thumbnail's. A cached file whose source can no longer be read is deleted
// and the decode error surfaces.
func (g *Generator) Generate(path string) (*arthub.Thumbnail, error) {
	thumbPath := g.ThumbPath(path)

	if _, err := os.Stat(thumbPath); err == nil {
		w, h, err := Dimensions(path)
		if err == nil {
			return &arthub.Thumbnail{ThumbPath: thumbPath, Width: w, Height: h}, nil
		}
		os.Remove(thumbPath)
	}

	src, err := decode(path)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating thumbnail dir: %w", err)
	}

	out := src
	if width > g.maxWidth {
		out = scaleToWidth(src, g.maxWidth)
	}
	if err := writeJPEG(thumbPath, out); err != nil {
		return nil, err
	}

	return &arthub.Thumbnail{ThumbPath: thumbPath, Width: width, Height: height}, nil
}

// Remove drops the cached thumbnails for the given source paths. Missing
// cache files are ignored.
func (g *Generator) Remove(paths []string) {
	for _, p := range paths {
		os.Remove(g.ThumbPath(p))
	}
}

// Dimensions reads an image's pixel size from its header without decoding
// the full file.
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("reading dimensions of %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// scaleToWidth shrinks src to maxWidth, keeping the aspect ratio.
func scaleToWidth(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	height := int(float64(bounds.Dy()) * ratio)
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating thumbnail: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing thumbnail: %w", err)
	}
	return nil
}
