package platform

import (
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// EnsureExecutable adds the execute bits matching the existing read bits of
// path. Tarballs frequently drop the mode of a package's entry file.
func EnsureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	exec := perm | (perm&0444)>>2
	if exec == perm {
		return nil
	}
	return Chmod(path, exec)
}
