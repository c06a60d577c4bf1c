package testutil

import (
	"strings"

	"arthub-go/internal/arthub"
)

// StubThumbnailer fakes thumbnail generation. It reports png, jpg and jpeg
// as decodable and answers Generate with canned dimensions, without ever
// touching the filesystem.
type StubThumbnailer struct {
	Width  int
	Height int
	Err    error

	// Generated and Removed record the paths passed in, in call order.
	Generated []string
	Removed   []string
}

func (s *StubThumbnailer) CanGenerate(ext string) bool {
	switch strings.ToLower(ext) {
	case "png", "jpg", "jpeg":
		return true
	}
	return false
}

func (s *StubThumbnailer) Generate(path string) (*arthub.Thumbnail, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.Generated = append(s.Generated, path)
	return &arthub.Thumbnail{
		ThumbPath: arthub.PathKey(path) + ".jpg",
		Width:     s.Width,
		Height:    s.Height,
	}, nil
}

func (s *StubThumbnailer) Remove(paths []string) {
	s.Removed = append(s.Removed, paths...)
}

var _ arthub.Thumbnailer = (*StubThumbnailer)(nil)
