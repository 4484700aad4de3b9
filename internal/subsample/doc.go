// Package subsample draws a class-balanced subset of an annotation table.
//
// Each class contributes up to floor(n/k) rows, drawn uniformly without
// replacement. When small classes leave part of the request unmet, the
// remainder is distributed by drawing class indices from the configured
// class space; a drawn index that names a present class adds one more of
// its unselected rows. Requests that cannot be honored are rejected before
// any rows are drawn.
package subsample
