// Package dataset models the on-disk layout of a split-organized video
// dataset and builds canonical-ID indexes over it.
//
// A dataset root holds one directory per split (train, test, val), a
// replacement pool of known-good substitutes, and an annotations directory
// with one CSV per split. Layout centralizes path construction so the
// reconciliation engine never guesses where a clip lives: the expected path
// of a clip is always <root>/<split>/<id><ext>.
//
// Scan and BuildReplacementIndex are read-only traversals. Lock provides the
// advisory file lock that keeps two runs from mutating the same root.
package dataset
