// Package preflight checks that a dataset root is ready for reconciliation.
//
// The CLI "clipkeeper status" command runs RunAll and renders each Result;
// "clipkeeper reconcile" runs the same checks and refuses to start when a
// required one fails, so a run never stops halfway on a missing directory
// or an absent ffprobe.
package preflight
