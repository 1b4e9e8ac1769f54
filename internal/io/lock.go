package ioutils

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the name of the lock file created in a locked directory.
const LockFileName = ".socrata-dl.lock"

// ErrLocked is returned by LockDir when another process holds the lock.
var ErrLocked = errors.New("output directory is locked by another run")

// DirLock is an exclusive lock on a directory.
type DirLock struct {
	fl *flock.Flock
}

// LockDir takes an exclusive lock on dir without waiting.
func LockDir(dir string) (*DirLock, error) {
	fl := flock.New(filepath.Join(dir, LockFileName))

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", dir, ErrLocked)
	}

	return &DirLock{fl: fl}, nil
}

// Unlock releases the lock. The lock file is left in place.
func (l *DirLock) Unlock() error {
	return l.fl.Unlock()
}
