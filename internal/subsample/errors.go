package subsample

import (
	"errors"
	"fmt"
)

var (
	// ErrSampleCountExceedsRows rejects a request for more rows than the table holds.
	ErrSampleCountExceedsRows = errors.New("sample count exceeds table rows")
	// ErrInvalidSampleCount rejects zero or negative sample counts.
	ErrInvalidSampleCount = errors.New("sample count must be positive")
	// ErrNoClasses reports a table without data rows.
	ErrNoClasses = errors.New("table has no labelled rows")
)

// ClassBoundExceededError reports a remainder larger than the configured
// class space, which the fill step could never satisfy.
type ClassBoundExceededError struct {
	Remainder int
	Bound     int
}

func (e *ClassBoundExceededError) Error() string {
	return fmt.Sprintf("remainder of %d samples exceeds the configured class bound of %d", e.Remainder, e.Bound)
}
