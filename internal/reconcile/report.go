package reconcile

import (
	"time"

	"clipkeeper/internal/probe"
)

// Report aggregates the outcome of one run.
type Report struct {
	RunID      string        `json:"run_id"`
	Phases     Phase         `json:"phases"`
	DryRun     bool          `json:"dry_run"`
	PoolSize   int           `json:"pool_size"`
	Duplicates int           `json:"pool_duplicates"`
	Purged     int           `json:"purged"`
	PoolRename RenameStats   `json:"pool_rename"`
	Splits     []SplitReport `json:"splits"`
	Started    time.Time     `json:"started"`
	Elapsed    time.Duration `json:"elapsed"`
}

// RenameStats counts the outcome of name normalization in one directory.
type RenameStats struct {
	Renamed int `json:"renamed"`
	Skipped int `json:"skipped"`
}

// SplitReport records what happened to one split.
type SplitReport struct {
	Split         string              `json:"split"`
	Renamed       int                 `json:"renamed"`
	RenameSkipped int                 `json:"rename_skipped"`
	Merged        int                 `json:"merged"`
	Restored      int                 `json:"restored"`
	MergeFailed   int                 `json:"merge_failed"`
	BytesMerged   int64               `json:"bytes_merged"`
	Probed        int                 `json:"probed"`
	Pruned        int                 `json:"pruned"`
	States        map[probe.State]int `json:"states,omitempty"`
	CleanedPath   string              `json:"cleaned_path,omitempty"`
	Err           error               `json:"-"`
	Error         string              `json:"error,omitempty"`
}

// Failed reports whether the split was aborted.
func (s SplitReport) Failed() bool {
	return s.Err != nil
}

// Totals sums the per-split counters.
func (r Report) Totals() SplitReport {
	total := SplitReport{Split: "total", States: map[probe.State]int{}}
	for _, s := range r.Splits {
		total.Renamed += s.Renamed
		total.RenameSkipped += s.RenameSkipped
		total.Merged += s.Merged
		total.Restored += s.Restored
		total.MergeFailed += s.MergeFailed
		total.BytesMerged += s.BytesMerged
		total.Probed += s.Probed
		total.Pruned += s.Pruned
		for state, n := range s.States {
			total.States[state] += n
		}
	}
	total.Renamed += r.PoolRename.Renamed
	total.RenameSkipped += r.PoolRename.Skipped
	return total
}
