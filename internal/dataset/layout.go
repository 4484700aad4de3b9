package dataset

import (
	"path/filepath"
	"strings"

	"clipkeeper/internal/annotations"
	"clipkeeper/internal/config"
)

// Layout describes where splits, the replacement pool, and annotations live.
type Layout struct {
	Root            string
	Splits          []string
	ReplacementPool string
	AnnotationsDir  string
	Extension       string
	CleanedSuffix   string
}

// LayoutFromConfig builds a Layout from the dataset section of cfg. A
// non-empty root overrides the configured root.
func LayoutFromConfig(cfg *config.Config, root string) Layout {
	if strings.TrimSpace(root) == "" {
		root = cfg.Dataset.Root
	}
	splits := make([]string, len(cfg.Dataset.Splits))
	copy(splits, cfg.Dataset.Splits)
	return Layout{
		Root:            root,
		Splits:          splits,
		ReplacementPool: cfg.Dataset.ReplacementPool,
		AnnotationsDir:  cfg.Dataset.AnnotationsDir,
		Extension:       cfg.Dataset.MediaExtension,
		CleanedSuffix:   cfg.Dataset.CleanedSuffix,
	}
}

// SplitDir returns the directory holding a split's media.
func (l Layout) SplitDir(split string) string {
	return filepath.Join(l.Root, split)
}

// PoolDir returns the replacement pool directory.
func (l Layout) PoolDir() string {
	return filepath.Join(l.Root, l.ReplacementPool)
}

// AnnotationPath returns <root>/<annotations>/<split>.csv.
func (l Layout) AnnotationPath(split string) string {
	return filepath.Join(l.Root, l.AnnotationsDir, split+".csv")
}

// CleanedPath returns the sibling of AnnotationPath carrying the cleaned suffix.
func (l Layout) CleanedPath(split string) string {
	return annotations.DerivedPath(l.AnnotationPath(split), l.CleanedSuffix)
}

// ExpectedPath returns the deterministic location of a clip within a split.
func (l Layout) ExpectedPath(split, id string) string {
	return filepath.Join(l.Root, split, id+l.Extension)
}
