package updater

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDevBuild is returned when checking from an unreleased build.
var ErrDevBuild = errors.New("development build has no release to compare")

// Check asks the registry for a release newer than the running version and
// records the answer when a version-check file is configured.
func (u *Updater) Check(ctx context.Context) (*Result, error) {
	if IsDevBuild(u.currentVersion) {
		return nil, ErrDevBuild
	}
	if u.lookup == nil {
		return nil, errors.New("no version lookup configured")
	}

	next, err := u.lookup.NextVersion(ctx, u.currentVersion, u.pkgName)
	if err != nil {
		return nil, fmt.Errorf("checking %s for updates: %w", u.pkgName, err)
	}

	res := &Result{
		Package:   u.pkgName,
		Current:   u.currentVersion,
		Next:      next,
		CheckedAt: time.Now(),
	}
	if u.cacheFile != "" {
		if err := u.record(res); err != nil {
			return res, err
		}
	}
	return res, nil
}
