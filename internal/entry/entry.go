// Package entry locates the executable entry file of an installed package by
// reading the "main" field of its nearest package.json.
package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DescriptorFile is the package descriptor looked up by Find.
const DescriptorFile = "package.json"

type descriptor struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`
}

// Find returns the absolute path of the entry file declared by the package
// rooted at or above rootDir. It returns "" with a nil error when rootDir does
// not exist, when no descriptor is found, or when the descriptor declares no
// main field. A descriptor that cannot be decoded is an error.
func Find(rootDir string) (string, error) {
	if rootDir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", rootDir, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}

	dir, ok := PackageDir(abs)
	if !ok {
		return "", nil
	}

	data, err := os.ReadFile(filepath.Join(dir, DescriptorFile))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Join(dir, DescriptorFile), err)
	}
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return "", fmt.Errorf("parsing %s: %w", filepath.Join(dir, DescriptorFile), err)
	}
	if d.Main == "" {
		return "", nil
	}

	return filepath.Clean(filepath.Join(dir, filepath.FromSlash(d.Main))), nil
}

// PackageDir walks from dir towards the filesystem root and returns the first
// directory containing a package.json.
func PackageDir(dir string) (string, bool) {
	for {
		info, err := os.Stat(filepath.Join(dir, DescriptorFile))
		if err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
