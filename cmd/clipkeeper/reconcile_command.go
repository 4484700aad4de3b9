package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"clipkeeper/internal/clipid"
	"clipkeeper/internal/config"
	"clipkeeper/internal/dataset"
	"clipkeeper/internal/logging"
	"clipkeeper/internal/preflight"
	"clipkeeper/internal/probe"
	"clipkeeper/internal/reconcile"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var (
		rename      bool
		merge       bool
		check       bool
		dryRun      bool
		noPurge     bool
		concurrency int
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile [root]",
		Short: "Rename, merge replacements, and prune annotation rows for undecodable clips",
		Long: `Reconcile every split of a dataset root.

Phases run in order per split: rename normalizes clip names to their canonical
ID, merge copies replacement-pool files over the split, and check probes every
annotated clip and writes <split>_cleaned.csv without the failing rows. With no
phase flag all three run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.datasetConfig(args)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			var phases reconcile.Phase
			if rename {
				phases |= reconcile.PhaseRename
			}
			if merge {
				phases |= reconcile.PhaseMerge
			}
			if check {
				phases |= reconcile.PhaseCheck
			}
			if phases == 0 {
				phases = reconcile.PhaseAll
			}

			layout := dataset.LayoutFromConfig(cfg, "")
			if err := requirePreflight(cmd, cfg, layout, phases); err != nil {
				return err
			}

			lock, err := dataset.AcquireLock(layout.Root)
			if err != nil {
				return err
			}
			logger.Debug("dataset lock acquired", logging.String("lock_path", lock.Path()))
			defer func() {
				if releaseErr := lock.Release(); releaseErr != nil {
					logger.Warn("release dataset lock", logging.String("lock_path", lock.Path()), logging.Error(releaseErr))
				}
			}()

			if concurrency <= 0 {
				concurrency = cfg.Probe.Concurrency
			}
			engine, err := reconcile.New(reconcile.Options{
				Layout:      layout,
				Resolver:    clipid.NewResolver(cfg.Dataset.IDLength),
				Prober:      newProber(cfg),
				Logger:      logger,
				DryRun:      dryRun,
				Concurrency: concurrency,
				PurgeHidden: cfg.Cleanup.PurgeHidden && !noPurge,
				KeyColumn:   cfg.Dataset.KeyColumn,
			})
			if err != nil {
				return err
			}

			report, runErr := engine.Run(cmd.Context(), phases)
			if jsonOut {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printReconcileReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&rename, "rename", false, "Normalize clip file names to their canonical ID")
	cmd.Flags().BoolVar(&merge, "merge", false, "Copy replacement-pool clips over split clips")
	cmd.Flags().BoolVar(&check, "check", false, "Probe annotated clips and write cleaned tables")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Log renames, copies, and purges without touching media files")
	cmd.Flags().BoolVar(&noPurge, "no-purge", false, "Skip removing hidden artifacts from the replacement pool")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Simultaneous probes (defaults to probe.concurrency)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run report as JSON")
	return cmd
}

func newProber(cfg *config.Config) *probe.Prober {
	return probe.New(
		probe.FFprobeDecoder{Binary: cfg.FFprobeBinary()},
		probe.WithFrameCount(cfg.Probe.FrameCount),
		probe.WithTimeout(cfg.ProbeTimeout()),
	)
}

// requirePreflight refuses to start when a check the selected phases depend
// on has failed. Annotation tables only matter for merge and check.
func requirePreflight(cmd *cobra.Command, cfg *config.Config, layout dataset.Layout, phases reconcile.Phase) error {
	var problems []string
	for _, result := range preflight.Failed(preflight.RunAll(cmd.Context(), cfg, layout)) {
		if strings.HasPrefix(result.Name, "Annotations ") {
			// Tables are validated per split by the engine so one bad table
			// does not block the others.
			continue
		}
		if result.Name == "FFprobe" && !phases.Has(reconcile.PhaseCheck) {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(problems) > 0 {
		return fmt.Errorf("preflight failed:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func printReconcileReport(out io.Writer, report reconcile.Report, colorize bool) {
	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(out, "Run %s: %s%s\n", report.RunID, report.Phases, mode)
	if report.Purged > 0 {
		fmt.Fprintf(out, "Hidden artifacts purged: %s\n", formatCount(report.Purged))
	}
	if report.Phases.Has(reconcile.PhaseMerge) {
		fmt.Fprintf(out, "Replacement pool: %s clips", formatCount(report.PoolSize))
		if report.Duplicates > 0 {
			fmt.Fprintf(out, " (%s duplicate ids ignored)", formatCount(report.Duplicates))
		}
		fmt.Fprintln(out)
	}

	spec := tableSpec{
		Headers: []string{"Split", "Renamed", "Merged", "Restored", "Copy Failed", "Bytes", "Probed", "Pruned", "Result"},
		Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	}
	for _, s := range report.Splits {
		spec.Rows = append(spec.Rows, []string{
			splitLabel(s.Split),
			formatCount(s.Renamed),
			formatCount(s.Merged),
			formatCount(s.Restored),
			formatCount(s.MergeFailed),
			formatBytes(s.BytesMerged),
			formatCount(s.Probed),
			formatCount(s.Pruned),
			splitOutcome(s, colorize),
		})
	}
	totals := report.Totals()
	spec.Footer = []string{
		"Total",
		formatCount(totals.Renamed),
		formatCount(totals.Merged),
		formatCount(totals.Restored),
		formatCount(totals.MergeFailed),
		formatBytes(totals.BytesMerged),
		formatCount(totals.Probed),
		formatCount(totals.Pruned),
		"",
	}
	fmt.Fprintln(out, spec.render())
}

func splitOutcome(s reconcile.SplitReport, colorize bool) string {
	switch {
	case s.Failed():
		return colorText("failed: "+s.Error, statusError, colorize)
	case s.CleanedPath != "":
		return colorText("wrote "+s.CleanedPath, statusWarn, colorize)
	case s.Probed > 0:
		return colorText("all clips healthy", statusOK, colorize)
	default:
		return "-"
	}
}
