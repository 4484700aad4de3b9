package preflight

import (
	"context"

	"clipkeeper/internal/config"
	"clipkeeper/internal/dataset"
	"clipkeeper/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
	// Advisory results are shown but never block a run.
	Advisory bool `json:"advisory,omitempty"`
}

// RunAll executes every check for the layout: the decoder binary, the root
// and split directories (read/write), the replacement pool (read), and each
// split's annotation table.
func RunAll(ctx context.Context, cfg *config.Config, layout dataset.Layout) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range deps.CheckBinaries(ctx, []deps.Requirement{deps.FFprobe(cfg.FFprobeBinary())}) {
		results = append(results, fromStatus(status))
	}

	results = append(results, CheckDirectoryAccess("Dataset root", layout.Root))
	for _, split := range layout.Splits {
		results = append(results, CheckDirectoryAccess("Split "+split, layout.SplitDir(split)))
	}

	pool := CheckDirectoryReadable("Replacement pool", layout.PoolDir())
	pool.Advisory = true
	results = append(results, pool)

	for _, split := range layout.Splits {
		results = append(results, CheckAnnotationTable("Annotations "+split, layout.AnnotationPath(split), cfg.Dataset.KeyColumn))
	}
	return results
}

// Failed returns the blocking results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Advisory: status.Optional}
	switch {
	case !status.Available:
		result.Detail = status.Detail
	case status.Version != "":
		result.Detail = status.Version
	default:
		result.Detail = status.Path
	}
	return result
}
