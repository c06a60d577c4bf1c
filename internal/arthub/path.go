package arthub

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PathKey returns the fixed-width identifier derived from a logical file
// path. Lock files, version directories and thumbnail cache entries are all
// named by this key, so it must be stable across machines and across the
// spelling variants a shared mount produces: the path is normalized to
// forward slashes and lowercased before hashing (Windows shares are
// case-insensitive).
//
// The key is the first 8 bytes of SHA-256 over the normalized path, encoded
// as 16 lowercase hex characters.
func PathKey(path string) string {
	norm := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:8])
}
