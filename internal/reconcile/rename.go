package reconcile

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"clipkeeper/internal/dataset"
	"clipkeeper/internal/logging"
)

// normalizeNames renames every media file under dir to <id><ext> in place.
// A target that already exists, or that another file in the same pass
// claimed, is left alone and counted as skipped.
func (e *Engine) normalizeNames(ctx context.Context, logger *slog.Logger, dir string) (RenameStats, error) {
	var stats RenameStats
	entries, err := dataset.Scan(ctx, dir, e.layout.Extension, e.resolver)
	if err != nil {
		return stats, err
	}

	claimed := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		claimed[entry.Path] = struct{}{}
	}

	for _, entry := range entries {
		target := filepath.Join(filepath.Dir(entry.Path), e.resolver.Filename(entry.Path))
		if target == entry.Path {
			continue
		}
		attrs := []logging.Attr{
			logging.String(logging.FieldPhase, "rename"),
			logging.String(logging.FieldCanonicalID, entry.ID),
			logging.String(logging.FieldPath, entry.Path),
			logging.String("target", target),
		}

		_, taken := claimed[target]
		if !taken {
			if _, statErr := os.Lstat(target); statErr == nil {
				taken = true
			} else if !errors.Is(statErr, fs.ErrNotExist) {
				return stats, statErr
			}
		}
		if taken {
			stats.Skipped++
			logging.WarnWithContext(logger, "rename target already exists", "rename_collision",
				append(attrs,
					logging.String(logging.FieldErrorHint, "remove the duplicate clip by hand"),
					logging.String(logging.FieldImpact, "file keeps its original name and is not matched by id"),
				)...,
			)
			continue
		}

		claimed[target] = struct{}{}
		if e.dryRun {
			stats.Renamed++
			logger.Info("would rename clip", logging.Args(append(attrs, logging.Bool(logging.FieldDryRun, true))...)...)
			continue
		}
		if err := os.Rename(entry.Path, target); err != nil {
			stats.Skipped++
			logging.WarnWithContext(logger, "rename failed", "rename_failed",
				append(attrs, logging.Error(err))...,
			)
			continue
		}
		delete(claimed, entry.Path)
		stats.Renamed++
		logger.Debug("renamed clip", logging.Args(attrs...)...)
	}

	if stats.Renamed > 0 || stats.Skipped > 0 {
		logger.Info("file names normalized",
			logging.String("dir", dir),
			logging.Int("renamed", stats.Renamed),
			logging.Int("skipped", stats.Skipped),
		)
	}
	return stats, nil
}
