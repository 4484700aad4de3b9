// Package cleanup removes stray hidden artifacts, such as the "._clip.mp4"
// resource forks copied in from macOS volumes, from dataset directories.
package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clipkeeper/internal/logging"
)

// PurgeResult contains the outcome of a hidden-file purge.
type PurgeResult struct {
	Removed []string
	Errors  []PurgeError
}

// PurgeError pairs a path with its removal error.
type PurgeError struct {
	Path  string
	Error error
}

// PurgeHidden walks dir recursively and removes every dot-prefixed regular
// file. Hidden directories are not descended into. A missing dir is a no-op.
// With dryRun set, candidates are reported in Removed without being deleted.
func PurgeHidden(ctx context.Context, dir string, dryRun bool, logger *slog.Logger) PurgeResult {
	result := PurgeResult{}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}
	if _, err := os.Stat(dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			result.Errors = append(result.Errors, PurgeError{Path: dir, Error: err})
		}
		return result
	}

	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result.Errors = append(result.Errors, PurgeError{Path: path, Error: err})
			return nil
		}
		hidden := strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !hidden || !entry.Type().IsRegular() {
			return nil
		}

		if dryRun {
			result.Removed = append(result.Removed, path)
			if logger != nil {
				logger.Info("would remove hidden file",
					logging.String(logging.FieldPath, path),
					logging.Bool(logging.FieldDryRun, true),
					logging.String(logging.FieldEventType, "hidden_purge"),
				)
			}
			return nil
		}

		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, PurgeError{Path: path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove hidden file",
					logging.String(logging.FieldPath, path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "hidden_purge_failed"),
					logging.String(logging.FieldErrorHint, "check dataset directory permissions"),
					logging.String(logging.FieldImpact, "artifact may be indexed as a clip"),
				)
			}
			return nil
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Debug("removed hidden file",
				logging.String(logging.FieldPath, path),
				logging.String(logging.FieldEventType, "hidden_purge"),
			)
		}
		return nil
	})
	if walkErr != nil {
		result.Errors = append(result.Errors, PurgeError{Path: dir, Error: walkErr})
	}

	return result
}
