// Package reconcile makes each split's media tree and annotation table agree.
//
// A run optionally purges hidden artifacts from the replacement pool,
// normalizes file names to their canonical IDs, merges known-good pool files
// over split files, and then probes every annotated clip. Rows whose clip is
// missing, empty, or undecodable are pruned into a "_cleaned" sibling table;
// the original table is never rewritten.
//
// Splits are processed sequentially. Within a split the merge completes
// before probing starts, and probes fan out across a bounded worker pool with
// results collected by row index.
package reconcile
