//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package platform

import "os"

// Platforms without flock or LockFileEx fall back to no cross-process locking.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
