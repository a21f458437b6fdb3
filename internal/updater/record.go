package updater

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// RecheckInterval is how long a recorded check stands in for a new one.
const RecheckInterval = 24 * time.Hour

// Result is the outcome of one registry check. The last one is kept in the
// version-check file between runs.
type Result struct {
	Package   string    `json:"package"`
	Current   string    `json:"current"`
	Next      string    `json:"next,omitempty"` // empty when Current is the newest release
	CheckedAt time.Time `json:"checked_at"`
}

// UpdateAvailable reports whether the check found a newer release.
func (r *Result) UpdateAvailable() bool {
	return r != nil && r.Next != ""
}

// describes reports whether r was recorded for pkg running at current.
func (r *Result) describes(pkg, current string) bool {
	return r != nil && r.Package == pkg && r.Current == current
}

func (r *Result) stale(now time.Time) bool {
	return r == nil || now.Sub(r.CheckedAt) > RecheckInterval
}

// lastResult reads the recorded check. It returns nil, nil before the
// first check.
func (u *Updater) lastResult() (*Result, error) {
	data, err := os.ReadFile(u.cacheFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u.cacheFile, err)
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", u.cacheFile, err)
	}
	return &res, nil
}

// record replaces the version-check file with res. The file is renamed into
// place so a concurrent run never reads a partial write.
func (u *Updater) record(res *Result) error {
	dir := filepath.Dir(u.cacheFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding version check: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".version-check-*")
	if err != nil {
		return fmt.Errorf("recording version check: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("recording version check: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("recording version check: %w", err)
	}
	if err := os.Rename(tmp.Name(), u.cacheFile); err != nil {
		return fmt.Errorf("recording version check: %w", err)
	}
	return nil
}
