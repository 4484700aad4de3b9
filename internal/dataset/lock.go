package dataset

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the dataset root while a run holds the lock.
const LockFileName = ".clipkeeper.lock"

// ErrLocked reports that another run holds the dataset lock.
var ErrLocked = errors.New("another clipkeeper run is already operating on this dataset")

// Lock is an exclusive advisory lock over a dataset root.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the dataset lock without blocking.
func AcquireLock(root string) (*Lock, error) {
	path := filepath.Join(root, LockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
