// Package main hosts the clipkeeper CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and the dataset root once,
// builds the structured logger, and hands off to the internal packages:
// reconcile for the rename/merge/check pipeline, subsample for balanced
// subsets, probe for one-off integrity checks, and preflight for status.
// Logs go to stderr so that --json output on stdout stays machine-readable.
package main
