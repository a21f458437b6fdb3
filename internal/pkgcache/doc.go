// Package pkgcache manages installed command packages on disk.
//
// A Package operates in one of two modes. In cache mode (a store directory is
// configured) every version lives in its own entry directory named
// "_<name with / as _>@<version>@<name>" under the store, so many versions of
// many packages share one root without colliding. In direct mode the package
// is read from, and installed into, a single target path. Install and update
// hold a cross-process lock on the entry being written.
package pkgcache
