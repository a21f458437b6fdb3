package pkgcache

import (
	"path/filepath"
	"strings"
)

// EntryName returns the cache directory name for a package version. Scoped
// names keep their slash, so "@scope/pkg" yields a nested directory.
func EntryName(name, version string) string {
	return "_" + strings.ReplaceAll(name, "/", "_") + "@" + version + "@" + name
}

// EntryPath returns the absolute-or-relative path of a package version's
// cache entry under storeDir. It performs no I/O.
func EntryPath(storeDir, name, version string) string {
	return filepath.Join(storeDir, filepath.FromSlash(EntryName(name, version)))
}

// ParseEntryName recovers the package name and version from an entry name
// produced by EntryName. Slashes must be forward slashes.
func ParseEntryName(entry string) (name, version string, ok bool) {
	s, found := strings.CutPrefix(entry, "_")
	if !found {
		return "", "", false
	}
	// The name may itself contain "@" (scopes), so try separators from the right.
	for j := len(s) - 1; j > 0; j-- {
		if s[j] != '@' {
			continue
		}
		candidate := s[j+1:]
		if candidate == "" {
			continue
		}
		prefix := strings.ReplaceAll(candidate, "/", "_") + "@"
		if !strings.HasPrefix(s, prefix) || len(prefix) >= j {
			continue
		}
		v := s[len(prefix):j]
		if v == "" || strings.Contains(v, "@") {
			continue
		}
		return candidate, v, true
	}
	return "", "", false
}
