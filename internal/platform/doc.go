// Package platform provides the cross-platform pieces of package dispatch:
// permission bits, directory links, advisory cache locks and the shell
// wrapping needed to spawn child processes on Windows. On Unix systems it
// uses native symlinks, chmod and flock directly. On Windows it wraps
// commands in "cmd /c", locks with LockFileEx and falls back to a .target
// sidecar when developer mode symlinks are unavailable.
package platform
