package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"clipkeeper/internal/clipid"
)

// Entry pairs a canonical ID with the file it was derived from.
type Entry struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Scan recursively lists media files under dir whose extension matches ext.
// Hidden files and directories are skipped. A missing dir yields no entries.
// Entries are sorted by path.
func Scan(ctx context.Context, dir, ext string, resolver clipid.Resolver) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		entries = append(entries, Entry{ID: resolver.ID(path), Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// IndexByID groups entries by canonical ID.
func IndexByID(entries []Entry) map[string][]string {
	index := make(map[string][]string, len(entries))
	for _, e := range entries {
		index[e.ID] = append(index[e.ID], e.Path)
	}
	return index
}
