package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileLock is an advisory, cross-process exclusive lock held on a file.
// The kernel releases it when the descriptor is closed, including when the
// holding process crashes, so an orphaned lock file is harmless.
type FileLock struct {
	path string
	file *os.File
}

// Lock opens (or creates) path and blocks until an exclusive lock on it is
// acquired. The parent directory is created if needed.
func Lock(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return &FileLock{path: path, file: f}, nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. It is safe to call multiple
// times; subsequent calls are no-ops.
func (l *FileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
