package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile reports that the media file does not exist.
	ErrMissingFile = errors.New("media file missing")
	// ErrEmptyDecode reports that decoding succeeded but yielded no frames.
	ErrEmptyDecode = errors.New("media decoded zero frames")
)

// DecodeError wraps the decoder failure for a file.
type DecodeError struct {
	Path  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
