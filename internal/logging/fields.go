package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID correlates every line emitted by one invocation.
	FieldRunID = "run_id"
	// FieldSplit names the dataset split being processed.
	FieldSplit = "split"
	// FieldCanonicalID is the clip's canonical identifier.
	FieldCanonicalID = "canonical_id"
	// FieldPath is the filesystem path a record refers to.
	FieldPath = "path"
	// FieldPhase names the reconciliation phase (rename, merge, check).
	FieldPhase = "phase"
	// FieldEventType is a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDryRun marks lines emitted while side effects are suppressed.
	FieldDryRun = "dry_run"
)
