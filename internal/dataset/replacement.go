package dataset

import (
	"context"
	"sort"

	"clipkeeper/internal/clipid"
)

// ReplacementIndex maps canonical IDs to known-good files in the replacement pool.
type ReplacementIndex struct {
	paths map[string]string
}

// Duplicate records a pool ID that resolved to more than one file.
type Duplicate struct {
	ID      string
	Kept    string
	Ignored string
}

// NewReplacementIndex builds an index from scanned pool entries. Entries are
// expected in path order; when two files share an ID the later path wins.
func NewReplacementIndex(entries []Entry) (ReplacementIndex, []Duplicate) {
	idx := ReplacementIndex{paths: make(map[string]string, len(entries))}
	var dups []Duplicate
	for _, e := range entries {
		if prev, ok := idx.paths[e.ID]; ok {
			dups = append(dups, Duplicate{ID: e.ID, Kept: e.Path, Ignored: prev})
		}
		idx.paths[e.ID] = e.Path
	}
	return idx, dups
}

// BuildReplacementIndex scans the layout's pool directory.
func BuildReplacementIndex(ctx context.Context, layout Layout, resolver clipid.Resolver) (ReplacementIndex, []Duplicate, error) {
	entries, err := Scan(ctx, layout.PoolDir(), layout.Extension, resolver)
	if err != nil {
		return ReplacementIndex{}, nil, err
	}
	idx, dups := NewReplacementIndex(entries)
	return idx, dups, nil
}

// Lookup returns the pool file for id.
func (r ReplacementIndex) Lookup(id string) (string, bool) {
	path, ok := r.paths[id]
	return path, ok
}

// Len returns the number of indexed IDs.
func (r ReplacementIndex) Len() int {
	return len(r.paths)
}

// Empty reports whether the pool contributed nothing.
func (r ReplacementIndex) Empty() bool {
	return len(r.paths) == 0
}

// IDs returns the indexed IDs in sorted order.
func (r ReplacementIndex) IDs() []string {
	ids := make([]string, 0, len(r.paths))
	for id := range r.paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
