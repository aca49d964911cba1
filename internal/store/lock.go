package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock provides cross-process mutual exclusion around a storage_dir, per
// the single-writer contract: a storage_dir is assumed to be exclusively
// owned by one Store, and cross-process concurrency is not supported
// without this.
type Lock struct {
	path   string
	fl     *flock.Flock
	locked bool
}

// NewLock builds a lock rooted at <dir>/.store.lock.
func NewLock(dir string) *Lock {
	path := filepath.Join(dir, ".store.lock")
	return &Lock{path: path, fl: flock.New(path)}
}

// Lock blocks until the exclusive lock is acquired.
func (l *Lock) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("store: create lock dir: %w", err)
	}
	if err := l.fl.Lock(); err != nil {
		return fmt.Errorf("store: acquire lock: %w", err)
	}
	l.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("store: create lock dir: %w", err)
	}
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("store: try lock: %w", err)
	}
	l.locked = ok
	return ok, nil
}

// Unlock releases the lock. Safe to call when not locked.
func (l *Lock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("store: release lock: %w", err)
	}
	l.locked = false
	return nil
}
