package thumb

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePNG writes a width x height test image to path.
func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
}

func TestGenerator_GenerateSmallImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "icon.png")
	writePNG(t, src, 64, 48)

	g := NewGenerator(dir, 300)
	thumb, err := g.Generate(src)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if thumb.Width != 64 || thumb.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", thumb.Width, thumb.Height)
	}
	if !strings.HasSuffix(thumb.ThumbPath, ".jpg") {
		t.Errorf("ThumbPath = %q, want .jpg cache file", thumb.ThumbPath)
	}
	if filepath.Dir(thumb.ThumbPath) != dir {
		t.Errorf("ThumbPath dir = %q, want %q", filepath.Dir(thumb.ThumbPath), dir)
	}

	// Below maxWidth the image is re-encoded without scaling.
	w, h, err := Dimensions(thumb.ThumbPath)
	if err != nil {
		t.Fatalf("Dimensions() error = %v", err)
	}
	if w != 64 || h != 48 {
		t.Errorf("thumbnail = %dx%d, want 64x48", w, h)
	}
}

func TestGenerator_GenerateScalesDown(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "splash.png")
	writePNG(t, src, 400, 200)

	g := NewGenerator(dir, 100)
	thumb, err := g.Generate(src)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Reported dimensions are the source's.
	if thumb.Width != 400 || thumb.Height != 200 {
		t.Errorf("dimensions = %dx%d, want source 400x200", thumb.Width, thumb.Height)
	}

	// The cached file is scaled to maxWidth with the ratio kept.
	w, h, err := Dimensions(thumb.ThumbPath)
	if err != nil {
		t.Fatalf("Dimensions() error = %v", err)
	}
	if w != 100 || h != 50 {
		t.Errorf("thumbnail = %dx%d, want 100x50", w, h)
	}
}

func TestGenerator_CacheReuse(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "hero.png")
	writePNG(t, src, 32, 32)

	g := NewGenerator(dir, 300)
	first, err := g.Generate(src)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Overwrite the cached file; a second Generate must reuse it untouched
	// as long as the source is still readable.
	if err := os.WriteFile(first.ThumbPath, []byte("sentinel"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	second, err := g.Generate(src)
	if err != nil {
		t.Fatalf("Generate() second call error = %v", err)
	}
	if second.ThumbPath != first.ThumbPath {
		t.Errorf("ThumbPath = %q, want %q", second.ThumbPath, first.ThumbPath)
	}
	if second.Width != 32 || second.Height != 32 {
		t.Errorf("dimensions = %dx%d, want 32x32", second.Width, second.Height)
	}
	data, err := os.ReadFile(first.ThumbPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "sentinel" {
		t.Error("cached thumbnail was regenerated, want reuse")
	}
}

func TestGenerator_StaleCacheRemoved(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "gone.png")
	writePNG(t, src, 32, 32)

	g := NewGenerator(dir, 300)
	thumb, err := g.Generate(src)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Source disappears: the cache entry must not outlive it.
	if err := os.Remove(src); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := g.Generate(src); err == nil {
		t.Fatal("Generate() with missing source expected error, got nil")
	}
	if _, err := os.Stat(thumb.ThumbPath); !os.IsNotExist(err) {
		t.Errorf("stale cache file still exists, stat err = %v", err)
	}
}

func TestGenerator_GenerateUndecodable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(src, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	g := NewGenerator(dir, 300)
	if _, err := g.Generate(src); err == nil {
		t.Error("Generate() on junk bytes expected error, got nil")
	}
}

func TestGenerator_CanGenerate(t *testing.T) {
	g := NewGenerator(t.TempDir(), 300)

	tests := []struct {
		ext  string
		want bool
	}{
		{"png", true},
		{"PNG", true},
		{"jpeg", true},
		{"webp", true},
		{"tif", true},
		{"psd", false},
		{"mp4", false},
		{"svg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := g.CanGenerate(tt.ext); got != tt.want {
			t.Errorf("CanGenerate(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestGenerator_Remove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "old.png")
	writePNG(t, src, 16, 16)

	g := NewGenerator(dir, 300)
	thumb, err := g.Generate(src)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	g.Remove([]string{src, "/never/indexed.png"})

	if _, err := os.Stat(thumb.ThumbPath); !os.IsNotExist(err) {
		t.Errorf("thumbnail still exists after Remove, stat err = %v", err)
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"png", CategoryImage},
		{"PSD", CategoryImage},
		{"tga", CategoryImage},
		{"mp4", CategoryVideo},
		{"MOV", CategoryVideo},
		{"wav", CategoryAudio},
		{"fbx", CategoryModel},
		{"blend", CategoryModel},
		{"skel", CategorySpine},
		{"atlas", CategorySpine},
		{"txt", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		if got := Category(tt.ext); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
