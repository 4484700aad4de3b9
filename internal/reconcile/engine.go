package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clipkeeper/internal/cleanup"
	"clipkeeper/internal/clipid"
	"clipkeeper/internal/dataset"
	"clipkeeper/internal/logging"
	"clipkeeper/internal/probe"
)

// DefaultConcurrency bounds simultaneous probes when Options leaves it unset.
const DefaultConcurrency = 4

// DefaultKeyColumn names the annotation column holding the canonical ID.
const DefaultKeyColumn = "youtube_id"

// Options configures an Engine.
type Options struct {
	Layout      dataset.Layout
	Resolver    clipid.Resolver
	Prober      *probe.Prober
	Logger      *slog.Logger
	DryRun      bool
	Concurrency int
	PurgeHidden bool
	KeyColumn   string
}

// Engine reconciles a dataset root.
type Engine struct {
	layout      dataset.Layout
	resolver    clipid.Resolver
	prober      *probe.Prober
	logger      *slog.Logger
	dryRun      bool
	concurrency int
	purgeHidden bool
	keyColumn   string
}

// New constructs an Engine.
func New(opts Options) (*Engine, error) {
	if strings.TrimSpace(opts.Layout.Root) == "" {
		return nil, errors.New("reconcile: dataset root is required")
	}
	if opts.Prober == nil {
		return nil, errors.New("reconcile: prober is required")
	}
	if opts.Resolver.Length <= 0 {
		opts.Resolver = clipid.NewResolver(opts.Resolver.Length)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if strings.TrimSpace(opts.KeyColumn) == "" {
		opts.KeyColumn = DefaultKeyColumn
	}
	return &Engine{
		layout:      opts.Layout,
		resolver:    opts.Resolver,
		prober:      opts.Prober,
		logger:      logging.NewComponentLogger(opts.Logger, "reconcile"),
		dryRun:      opts.DryRun,
		concurrency: opts.Concurrency,
		purgeHidden: opts.PurgeHidden,
		keyColumn:   opts.KeyColumn,
	}, nil
}

// Run executes the selected phases against every split. Per-file failures
// are recorded in the report; the returned error joins only split-level
// failures such as malformed annotation tables.
func (e *Engine) Run(ctx context.Context, phases Phase) (Report, error) {
	if phases == 0 {
		phases = PhaseAll
	}
	report := Report{
		RunID:   uuid.NewString(),
		Phases:  phases,
		DryRun:  e.dryRun,
		Started: time.Now(),
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, e.logger)

	logger.Info("reconciliation started",
		logging.String(logging.FieldPhase, phases.String()),
		logging.String("root", e.layout.Root),
		logging.Bool(logging.FieldDryRun, e.dryRun),
		logging.Int("splits", len(e.layout.Splits)),
	)

	if e.purgeHidden {
		purged := cleanup.PurgeHidden(ctx, e.layout.PoolDir(), e.dryRun, logger)
		report.Purged = len(purged.Removed)
		if len(purged.Removed) > 0 {
			logger.Info("hidden artifacts purged from replacement pool", logging.Int("files", len(purged.Removed)))
		}
	}

	if phases.Has(PhaseRename) {
		stats, err := e.normalizeNames(ctx, logger, e.layout.PoolDir())
		if err != nil {
			return report, fmt.Errorf("normalize replacement pool: %w", err)
		}
		report.PoolRename = stats
	}

	var index dataset.ReplacementIndex
	if phases.Has(PhaseMerge) {
		idx, dups, err := dataset.BuildReplacementIndex(ctx, e.layout, e.resolver)
		if err != nil {
			return report, fmt.Errorf("build replacement index: %w", err)
		}
		for _, dup := range dups {
			logger.Warn("duplicate canonical id in replacement pool",
				logging.String(logging.FieldCanonicalID, dup.ID),
				logging.String("kept", dup.Kept),
				logging.String("ignored", dup.Ignored),
				logging.String(logging.FieldEventType, "pool_duplicate"),
				logging.String(logging.FieldErrorHint, "remove or rename one of the pool files"),
				logging.String(logging.FieldImpact, "the lexically last file is used for merging"),
			)
		}
		index = idx
		report.PoolSize = idx.Len()
		report.Duplicates = len(dups)
		if idx.Empty() {
			logger.Info("replacement pool empty; merge skipped", logging.String("pool", e.layout.PoolDir()))
		}
	}

	var errs []error
	for _, split := range e.layout.Splits {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		splitReport := e.runSplit(ctx, split, phases, index)
		if splitReport.Err != nil {
			splitReport.Error = splitReport.Err.Error()
			errs = append(errs, fmt.Errorf("split %s: %w", split, splitReport.Err))
		}
		report.Splits = append(report.Splits, splitReport)
	}

	report.Elapsed = time.Since(report.Started)
	totals := report.Totals()
	logger.Info("reconciliation finished",
		logging.Int("merged", totals.Merged+totals.Restored),
		logging.Int("probed", totals.Probed),
		logging.Int("pruned", totals.Pruned),
		logging.Int("failed_splits", len(errs)),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, errors.Join(errs...)
}

func (e *Engine) runSplit(ctx context.Context, split string, phases Phase, index dataset.ReplacementIndex) SplitReport {
	ctx = logging.WithSplit(ctx, split)
	logger := logging.WithContext(ctx, e.logger)
	report := SplitReport{Split: split}

	if phases.Has(PhaseRename) {
		stats, err := e.normalizeNames(ctx, logger, e.layout.SplitDir(split))
		report.Renamed, report.RenameSkipped = stats.Renamed, stats.Skipped
		if err != nil {
			report.Err = err
			return report
		}
	}

	if phases.Has(PhaseMerge) && !index.Empty() {
		if err := e.merge(ctx, logger, split, index, &report); err != nil {
			report.Err = err
			return report
		}
	}

	if phases.Has(PhaseCheck) {
		if err := e.check(ctx, logger, split, &report); err != nil {
			report.Err = err
			return report
		}
	}
	return report
}
