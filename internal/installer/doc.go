// Package installer materialises a published package version on disk. The
// tarball installer downloads the version's archive from the registry,
// verifies its integrity, extracts it into a temporary sibling of the
// destination and renames the result into place, restoring the previous
// directory if the swap fails.
package installer
