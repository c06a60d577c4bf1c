package thumb

import "strings"

// Broad asset categories used in listings.
const (
	CategoryImage = "image"
	CategoryVideo = "video"
	CategoryAudio = "audio"
	CategoryModel = "3d"
	CategorySpine = "spine"
	CategoryOther = "other"
)

// Extension groups for categorization. The image group is wider than
// decodableExts: a psd is an image to the artist whether or not a decoder
// is registered for it.
var (
	imageExts = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp", "tiff", "tif", "ico", "tga", "hdr", "exr", "psd"}
	videoExts = []string{"mp4", "avi", "mov", "mkv", "wmv", "flv", "webm", "m4v", "mpg", "mpeg"}
	audioExts = []string{"mp3", "wav", "ogg", "flac", "aac", "wma", "m4a", "opus"}
	modelExts = []string{"fbx", "obj", "gltf", "glb", "blend", "3ds", "dae", "stl"}
	spineExts = []string{"spine", "skel", "atlas"}
)

var categoryByExt = func() map[string]string {
	m := make(map[string]string)
	for category, exts := range map[string][]string{
		CategoryImage: imageExts,
		CategoryVideo: videoExts,
		CategoryAudio: audioExts,
		CategoryModel: modelExts,
		CategorySpine: spineExts,
	} {
		for _, ext := range exts {
			m[ext] = category
		}
	}
	return m
}()

// Category classifies a file extension into the broad asset type.
func Category(ext string) string {
	if c, ok := categoryByExt[strings.ToLower(ext)]; ok {
		return c
	}
	return CategoryOther
}
