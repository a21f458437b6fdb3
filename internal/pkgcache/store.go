package pkgcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hatch-cli/hatch/internal/platform"
	"github.com/hatch-cli/hatch/internal/registry"
)

// Entry describes one installed package version in a store directory.
type Entry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
	Active  bool   `json:"active"` // the store's <name> link points here
}

// List returns the cache entries under storeDir sorted by name, then by
// descending version. A missing store directory yields no entries.
func List(storeDir string) ([]Entry, error) {
	dirents, err := os.ReadDir(storeDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading store directory %s: %w", storeDir, err)
	}

	var entries []Entry
	for _, d := range dirents {
		if !d.IsDir() || !strings.HasPrefix(d.Name(), "_") {
			continue
		}
		if name, version, ok := ParseEntryName(d.Name()); ok {
			entries = append(entries, newEntry(storeDir, name, version))
			continue
		}
		// Scoped entries nest one level: "_@s_pkg@1.0.0@@s/pkg".
		children, err := os.ReadDir(filepath.Join(storeDir, d.Name()))
		if err != nil {
			continue
		}
		for _, c := range children {
			if !c.IsDir() {
				continue
			}
			if name, version, ok := ParseEntryName(d.Name() + "/" + c.Name()); ok {
				entries = append(entries, newEntry(storeDir, name, version))
			}
		}
	}

	return sortEntries(entries), nil
}

// sortEntries orders entries by name, then by descending semver precedence.
// Versions that do not parse trail their package in reverse lexical order.
func sortEntries(entries []Entry) []Entry {
	byName := make(map[string]map[string]Entry)
	var names []string
	for _, e := range entries {
		if byName[e.Name] == nil {
			byName[e.Name] = make(map[string]Entry)
			names = append(names, e.Name)
		}
		byName[e.Name][e.Version] = e
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(entries))
	for _, name := range names {
		versions := byName[name]
		all := make([]string, 0, len(versions))
		for v := range versions {
			all = append(all, v)
		}
		ordered := registry.SortDescending(all)
		if len(ordered) < len(all) {
			valid := make(map[string]bool, len(ordered))
			for _, v := range ordered {
				valid[v] = true
			}
			var rest []string
			for _, v := range all {
				if !valid[v] {
					rest = append(rest, v)
				}
			}
			sort.Sort(sort.Reverse(sort.StringSlice(rest)))
			ordered = append(ordered, rest...)
		}
		for _, v := range ordered {
			out = append(out, versions[v])
		}
	}
	return out
}

func newEntry(storeDir, name, version string) Entry {
	path := EntryPath(storeDir, name, version)
	e := Entry{Name: name, Version: version, Path: path}

	link := filepath.Join(storeDir, filepath.FromSlash(name))
	if target, err := platform.ReadSymlinkTarget(link); err == nil {
		abs, _ := filepath.Abs(path)
		e.Active = filepath.Clean(target) == abs
	}
	return e
}

// Clean removes the whole store directory.
func Clean(storeDir string) error {
	if storeDir == "" {
		return errors.New("store directory is required")
	}
	if err := os.RemoveAll(storeDir); err != nil {
		return fmt.Errorf("removing %s: %w", storeDir, err)
	}
	return nil
}
