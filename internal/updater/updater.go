package updater

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hatch-cli/hatch/internal/branding"
)

// DefaultCheckTimeout bounds a background version check.
const DefaultCheckTimeout = 5 * time.Second

// VersionLookup finds the newest published version greater than baseline.
// *registry.Client satisfies it.
type VersionLookup interface {
	NextVersion(ctx context.Context, baseline, name string) (string, error)
}

// Updater checks the registry for newer releases of the CLI.
type Updater struct {
	currentVersion string
	pkgName        string
	cacheFile      string
	lookup         VersionLookup
	logger         *log.Logger
	timeout        time.Duration

	wg sync.WaitGroup
}

// Option configures an Updater.
type Option func(*Updater)

// WithPackage overrides the registry package the CLI is published as.
func WithPackage(name string) Option {
	return func(u *Updater) {
		u.pkgName = name
	}
}

// WithCacheFile sets where check results are stored.
func WithCacheFile(path string) Option {
	return func(u *Updater) {
		u.cacheFile = path
	}
}

// WithLogger sets the logger used for background failures.
func WithLogger(l *log.Logger) Option {
	return func(u *Updater) {
		u.logger = l
	}
}

// WithTimeout bounds background checks.
func WithTimeout(d time.Duration) Option {
	return func(u *Updater) {
		u.timeout = d
	}
}

// New creates an Updater for the running version.
func New(currentVersion string, lookup VersionLookup, opts ...Option) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
		pkgName:        branding.NpmPackage(),
		lookup:         lookup,
		logger:         log.New(io.Discard),
		timeout:        DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Package returns the registry package name that is checked.
func (u *Updater) Package() string {
	return u.pkgName
}
