// Package filelock serializes writers of files under the atpath home directory.
// Locks are advisory flock(2) locks, so they hold across processes: two
// editors serving the same workspace cannot interleave a settings save.
package filelock

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// RetryDelay is how often a blocked Lock polls for the lock to be released
const RetryDelay = 25 * time.Millisecond

// Lock is an exclusive lock held on a sidecar ".lock" file
type Lock struct {
	fl   *flock.Flock
	path string
}

// New creates a lock backed by the file at path. The file is created on first lock.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path), path: path}
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.path
}

// Lock blocks until the lock is held or ctx is done
func (l *Lock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.fl.TryLockContext(ctx, RetryDelay)
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("acquire lock %s: %w", l.path, ctx.Err())
	}
	return nil
}

// TryLock takes the lock if it is free
func (l *Lock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("try lock %s: %w", l.path, err)
	}
	return ok, nil
}

// Unlock releases the lock
func (l *Lock) Unlock() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// WithLock runs fn while holding the lock at lockPath
func WithLock(ctx context.Context, lockPath string, fn func() error) error {
	l := New(lockPath)
	if err := l.Lock(ctx); err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}

// AtomicWrite replaces path with data through a temp file in the same
// directory and a rename, so readers see either the old or the new contents.
func AtomicWrite(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	committed = true
	return nil
}

// LockAndWrite atomically writes path while holding path + ".lock"
func LockAndWrite(path string, data []byte) error {
	return WithLock(context.Background(), path+".lock", func() error {
		return AtomicWrite(path, data, 0644)
	})
}
