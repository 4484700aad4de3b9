// Package clipid derives canonical clip identifiers from media file paths.
//
// A canonical ID is a fixed-length prefix of the file's base name with the
// extension stripped. It is the key that correlates the same logical clip
// across the train/test/val splits, the replacement pool, and the
// annotation tables. Base names shorter than the configured length resolve to
// the whole stem rather than failing.
package clipid
