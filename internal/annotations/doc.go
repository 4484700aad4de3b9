// Package annotations reads and writes the per-split CSV annotation tables.
//
// Tables keep their header and row order exactly as loaded. Writes follow the
// non-numeric quoting convention used by the dataset's tooling: columns whose
// values are all numeric are emitted bare, everything else is quoted. Row
// removal is by index so the surviving rows keep their relative order.
package annotations
