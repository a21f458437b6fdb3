package registry

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// parsed pairs a catalog entry with its parsed semver value. The original
// string is kept so callers get back exactly what the registry published.
type parsed struct {
	raw string
	v   *semver.Version
}

// parseSemver strips a leading "v" and parses the version string strictly.
func parseSemver(version string) (*semver.Version, error) {
	return semver.StrictNewVersion(strings.TrimPrefix(version, "v"))
}

// SortDescending returns the valid entries of catalog ordered from highest to
// lowest semver precedence. The input slice is not modified.
func SortDescending(catalog []string) []string {
	entries := parseCatalog(catalog)
	sortDesc(entries)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out
}

// ResolveLatest returns the highest version in catalog.
// The second result is false when the catalog holds no valid version.
func ResolveLatest(catalog []string) (string, bool) {
	entries := parseCatalog(catalog)
	if len(entries) == 0 {
		return "", false
	}
	sortDesc(entries)
	return entries[0].raw, true
}

// ResolveNextGreater returns the highest version in catalog strictly greater
// than baseline. The second result is false when no version qualifies or
// baseline is not a valid version.
func ResolveNextGreater(baseline string, catalog []string) (string, bool) {
	base, err := parseSemver(baseline)
	if err != nil {
		return "", false
	}

	var newer []parsed
	for _, p := range parseCatalog(catalog) {
		if p.v.GreaterThan(base) {
			newer = append(newer, p)
		}
	}
	if len(newer) == 0 {
		return "", false
	}
	sortDesc(newer)
	return newer[0].raw, true
}

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, err
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, err
	}
	return av.Compare(bv), nil
}

func parseCatalog(catalog []string) []parsed {
	entries := make([]parsed, 0, len(catalog))
	for _, raw := range catalog {
		v, err := parseSemver(raw)
		if err != nil {
			continue
		}
		entries = append(entries, parsed{raw: raw, v: v})
	}
	return entries
}

// sortDesc orders entries by descending precedence. Equal precedence
// (build metadata only) falls back to the raw string so results are stable.
func sortDesc(entries []parsed) {
	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].v.Compare(entries[j].v); c != 0 {
			return c > 0
		}
		return entries[i].raw > entries[j].raw
	})
}
