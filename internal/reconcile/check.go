package reconcile

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"clipkeeper/internal/annotations"
	"clipkeeper/internal/dataset"
	"clipkeeper/internal/logging"
	"clipkeeper/internal/probe"
)

// CheckResult is the outcome of probing every row of one table.
type CheckResult struct {
	Split   string
	Records []dataset.MediaRecord
	// Unhealthy holds the row indices whose clip failed the probe, ascending.
	Unhealthy []int
	States    map[probe.State]int
	Cleaned   annotations.Table
}

// Pruned returns the number of rows removed.
func (r CheckResult) Pruned() int {
	return len(r.Unhealthy)
}

func (e *Engine) check(ctx context.Context, logger *slog.Logger, split string, report *SplitReport) error {
	table, err := annotations.Load(e.layout.AnnotationPath(split))
	if err != nil {
		return err
	}

	result, err := e.CheckTable(ctx, split, table)
	if err != nil {
		return err
	}
	report.Probed = len(result.Records)
	report.Pruned = result.Pruned()
	report.States = result.States

	logger.Info("files probed",
		logging.String(logging.FieldPhase, "check"),
		logging.Int("probed", report.Probed),
		logging.Int("healthy", result.States[probe.StateHealthy]),
	)

	if result.Pruned() == 0 {
		logger.Info("rows pruned", logging.Int("rows", 0), logging.String("table", table.Path))
		return nil
	}

	cleanedPath := e.layout.CleanedPath(split)
	if err := result.Cleaned.Save(cleanedPath); err != nil {
		return err
	}
	report.CleanedPath = cleanedPath
	logger.Info("rows pruned",
		logging.Int("rows", result.Pruned()),
		logging.Int("kept", result.Cleaned.Len()),
		logging.String("output", cleanedPath),
	)
	return nil
}

// CheckTable probes the clip behind every row of table and returns the table
// with non-healthy rows removed. Surviving rows keep their relative order.
// The table itself is not modified and nothing is written to disk.
func (e *Engine) CheckTable(ctx context.Context, split string, table annotations.Table) (CheckResult, error) {
	keys, err := table.Values(e.keyColumn)
	if err != nil {
		return CheckResult{}, err
	}
	ctx = logging.WithSplit(ctx, split)
	logger := logging.WithContext(ctx, e.logger)

	records := make([]dataset.MediaRecord, len(keys))
	for i, key := range keys {
		id := strings.TrimSpace(key)
		records[i] = dataset.MediaRecord{
			CanonicalID: id,
			Split:       split,
			Path:        e.layout.ExpectedPath(split, id),
			State:       probe.StateUnknown,
		}
	}

	var (
		mu      sync.Mutex
		done    int
		sampler = logging.NewProgressSampler(10)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := e.prober.Probe(gctx, records[i].Path)
			records[i].State = result.State
			if !result.Healthy() {
				e.warnUnhealthy(logger, records[i], result)
			}

			mu.Lock()
			done++
			if sampler.ShouldLog(split, done, len(records)) {
				logger.Debug("probe progress", logging.Int("done", done), logging.Int("total", len(records)))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CheckResult{}, err
	}

	result := CheckResult{Split: split, Records: records, States: make(map[probe.State]int)}
	for i, record := range records {
		result.States[record.State]++
		if record.State != probe.StateHealthy {
			result.Unhealthy = append(result.Unhealthy, i)
		}
	}
	result.Cleaned = table.Without(result.Unhealthy)
	return result, nil
}

func (e *Engine) warnUnhealthy(logger *slog.Logger, record dataset.MediaRecord, result probe.Result) {
	attrs := []logging.Attr{
		logging.String(logging.FieldPhase, "check"),
		logging.String(logging.FieldCanonicalID, record.CanonicalID),
		logging.String(logging.FieldPath, record.Path),
		logging.String("state", record.State.String()),
		logging.String(logging.FieldImpact, "annotation row pruned from cleaned table"),
	}
	hint := "restore the clip from the replacement pool"
	if result.Cause != nil {
		attrs = append(attrs, logging.Error(result.Cause))
		hint = "inspect the file with ffprobe"
	}
	attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
	logging.WarnWithContext(logger, "clip failed integrity probe", "clip_unhealthy", attrs...)
}
