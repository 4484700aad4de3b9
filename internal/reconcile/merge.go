package reconcile

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"clipkeeper/internal/annotations"
	"clipkeeper/internal/dataset"
	"clipkeeper/internal/fileutil"
	"clipkeeper/internal/logging"
)

// merge copies pool files over the split. Every scanned split file whose ID is
// in the index is overwritten; every annotated ID that is in the index but
// has no file in the split is restored at its expected path. A failed copy
// affects only that ID.
func (e *Engine) merge(ctx context.Context, logger *slog.Logger, split string, index dataset.ReplacementIndex, report *SplitReport) error {
	entries, err := dataset.Scan(ctx, e.layout.SplitDir(split), e.layout.Extension, e.resolver)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, ok := index.Lookup(entry.ID)
		if !ok {
			continue
		}
		n, err := e.copyReplacement(logger, entry.ID, src, entry.Path)
		if err != nil {
			report.MergeFailed++
			continue
		}
		report.Merged++
		report.BytesMerged += n
	}

	present := dataset.IndexByID(entries)
	ids, err := e.annotatedIDs(split)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := present[id]; ok {
			continue
		}
		src, ok := index.Lookup(id)
		if !ok {
			continue
		}
		n, err := e.copyReplacement(logger, id, src, e.layout.ExpectedPath(split, id))
		if err != nil {
			report.MergeFailed++
			continue
		}
		report.Restored++
		report.BytesMerged += n
	}

	logger.Info("files merged",
		logging.String(logging.FieldPhase, "merge"),
		logging.Int("merged", report.Merged),
		logging.Int("restored", report.Restored),
		logging.Int("failed", report.MergeFailed),
		logging.String("bytes", humanize.Bytes(uint64(report.BytesMerged))),
		logging.Bool(logging.FieldDryRun, e.dryRun),
	)
	return nil
}

func (e *Engine) copyReplacement(logger *slog.Logger, id, src, dst string) (int64, error) {
	attrs := []logging.Attr{
		logging.String(logging.FieldPhase, "merge"),
		logging.String(logging.FieldCanonicalID, id),
		logging.String("source", src),
		logging.String(logging.FieldPath, dst),
	}
	if e.dryRun {
		info, err := os.Stat(src)
		if err != nil {
			e.warnCopyFailed(logger, attrs, err)
			return 0, err
		}
		logger.Info("would copy replacement", logging.Args(append(attrs, logging.Bool(logging.FieldDryRun, true))...)...)
		return info.Size(), nil
	}

	n, err := fileutil.ReplaceFile(src, dst)
	if errors.Is(err, fileutil.ErrSameFile) {
		return 0, nil
	}
	if err != nil {
		e.warnCopyFailed(logger, attrs, err)
		return 0, err
	}
	logger.Debug("replacement copied", logging.Args(append(attrs, logging.Int64("bytes", n))...)...)
	return n, nil
}

func (e *Engine) warnCopyFailed(logger *slog.Logger, attrs []logging.Attr, err error) {
	logging.WarnWithContext(logger, "replacement copy failed", "merge_copy_failed",
		append(attrs,
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the replacement pool file is readable"),
			logging.String(logging.FieldImpact, "clip keeps its current bytes and may be pruned"),
		)...,
	)
}

// annotatedIDs returns the distinct keys of the split's annotation table in
// row order. A split without a table contributes nothing.
func (e *Engine) annotatedIDs(split string) ([]string, error) {
	table, err := annotations.Load(e.layout.AnnotationPath(split))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	keys, err := table.Values(e.keyColumn)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(keys))
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimSpace(key)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
