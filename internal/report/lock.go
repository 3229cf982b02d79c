package report

import (
	"fmt"

	"github.com/gofrs/flock"

	"projmerge/internal/services"
)

// OutputLock is an advisory lock guarding one output path.
type OutputLock struct {
	path string
	lock *flock.Flock
}

// LockOutput acquires "<path>.lock" without blocking.
func LockOutput(path string) (*OutputLock, error) {
	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "report", "lock", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "report", "lock",
			fmt.Sprintf("%s is locked by another projmerge run", path), nil)
	}
	return &OutputLock{path: lockPath, lock: lock}, nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks. Safe on a nil lock.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

// Locked runs fn while holding the output lock for path when enabled.
func Locked(path string, enabled bool, fn func() error) (err error) {
	if !enabled {
		return fn()
	}
	lock, err := LockOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()
	return fn()
}
