package clipid

import (
	"path/filepath"
	"strings"
)

// DefaultLength is the prefix length used by YouTube-derived clip names.
const DefaultLength = 11

// Resolve returns the first length runes of the path's base name without its
// extension. A length <= 0 returns the whole stem.
func Resolve(path string, length int) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if length <= 0 {
		return stem
	}
	runes := []rune(stem)
	if len(runes) <= length {
		return stem
	}
	return string(runes[:length])
}

// Resolver binds a prefix length so callers can pass ID resolution around as a value.
type Resolver struct {
	Length int
}

// NewResolver returns a resolver for the given length, falling back to DefaultLength.
func NewResolver(length int) Resolver {
	if length <= 0 {
		length = DefaultLength
	}
	return Resolver{Length: length}
}

// ID resolves the canonical ID for path.
func (r Resolver) ID(path string) string {
	return Resolve(path, r.Length)
}

// Filename returns the normalized base name for a canonical ID: id + ext.
func (r Resolver) Filename(path string) string {
	return r.ID(path) + filepath.Ext(path)
}
