package pkgcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hatch-cli/hatch/internal/entry"
	"github.com/hatch-cli/hatch/internal/installer"
	"github.com/hatch-cli/hatch/internal/platform"
)

// LatestTag is the version request resolved against the registry.
const LatestTag = "latest"

var (
	// ErrVersionNotFound is returned when the registry publishes no usable
	// version for a package.
	ErrVersionNotFound = errors.New("no published version found")

	errNoName   = errors.New("package name is required")
	errNoTarget = errors.New("target path is required when no store directory is set")
)

// VersionSource resolves the newest published version of a package.
// *registry.Client satisfies it.
type VersionSource interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// Spec identifies a package and where it lives on disk.
type Spec struct {
	Name       string
	Version    string // "latest" or a concrete version
	TargetPath string
	StoreDir   string // empty selects direct mode
}

// Options configures a Package.
type Options struct {
	Spec      Spec
	Versions  VersionSource
	Installer installer.Installer
	Logger    *log.Logger
}

// Package is one named package resolved for a single command invocation.
type Package struct {
	spec      Spec
	versions  VersionSource
	installer installer.Installer
	logger    *log.Logger

	// absent holds entry paths this Package last saw missing. One that is
	// present once its lock is held was installed by a concurrent run.
	absent map[string]bool
}

// New validates opts and returns a Package. An empty version means latest.
func New(opts Options) (*Package, error) {
	spec := opts.Spec
	if spec.Name == "" {
		return nil, errNoName
	}
	if spec.StoreDir == "" && spec.TargetPath == "" {
		return nil, errNoTarget
	}
	if spec.Version == "" {
		spec.Version = LatestTag
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Package{
		spec:      spec,
		versions:  opts.Versions,
		installer: opts.Installer,
		logger:    logger,
		absent:    make(map[string]bool),
	}, nil
}

// Spec returns a copy of the package spec, including any resolved version.
func (p *Package) Spec() Spec {
	return p.spec
}

// CacheMode reports whether the package lives under a shared store directory.
func (p *Package) CacheMode() bool {
	return p.spec.StoreDir != ""
}

// CacheFilePath returns the entry path of the currently selected version.
// It is only meaningful in cache mode and after the version is concrete.
func (p *Package) CacheFilePath() string {
	return EntryPath(p.spec.StoreDir, p.spec.Name, p.spec.Version)
}

// Exists reports whether the package is present on disk. In cache mode a
// "latest" request is resolved first; direct mode never touches the network.
func (p *Package) Exists(ctx context.Context) (bool, error) {
	if !p.CacheMode() {
		return pathExists(p.spec.TargetPath)
	}
	if err := p.prepare(ctx); err != nil {
		return false, err
	}
	return p.cached(p.CacheFilePath())
}

// Install materialises the selected version. It does not check whether the
// package is already present; callers consult Exists first.
func (p *Package) Install(ctx context.Context) error {
	if err := p.prepare(ctx); err != nil {
		return err
	}
	return p.installVersion(ctx, p.spec.Version)
}

// Update installs the registry's latest version if it is not already
// present and selects it. When it is present Update does nothing.
func (p *Package) Update(ctx context.Context) error {
	if err := p.prepare(ctx); err != nil {
		return err
	}
	latest, err := p.latest(ctx)
	if err != nil {
		return err
	}

	if !p.CacheMode() {
		installed := installedVersion(p.spec.TargetPath)
		if installed == latest {
			p.logger.Debug("package is up to date", "name", p.spec.Name, "version", latest)
			return nil
		}
		if err := p.installVersion(ctx, latest); err != nil {
			return err
		}
		p.spec.Version = latest
		return nil
	}

	if exists, err := p.cached(EntryPath(p.spec.StoreDir, p.spec.Name, latest)); err != nil {
		return err
	} else if exists {
		p.logger.Debug("latest version already cached", "name", p.spec.Name, "version", latest)
		return nil
	}
	if err := p.installVersion(ctx, latest); err != nil {
		return err
	}
	p.spec.Version = latest
	return nil
}

// RootFilePath returns the package's entry file, or "" if it declares none.
func (p *Package) RootFilePath() (string, error) {
	if p.CacheMode() {
		return entry.Find(p.CacheFilePath())
	}
	return entry.Find(p.spec.TargetPath)
}

// prepare creates the store directory and resolves a "latest" request.
func (p *Package) prepare(ctx context.Context) error {
	if p.CacheMode() {
		if err := os.MkdirAll(p.spec.StoreDir, 0755); err != nil {
			return fmt.Errorf("creating store directory %s: %w", p.spec.StoreDir, err)
		}
	}
	if p.spec.Version != LatestTag {
		return nil
	}
	latest, err := p.latest(ctx)
	if err != nil {
		return err
	}
	p.spec.Version = latest
	p.logger.Debug("resolved version", "name", p.spec.Name, "version", latest)
	return nil
}

func (p *Package) latest(ctx context.Context) (string, error) {
	if p.versions == nil {
		return "", fmt.Errorf("%s: no version source configured", p.spec.Name)
	}
	v, err := p.versions.LatestVersion(ctx, p.spec.Name)
	if err != nil {
		return "", fmt.Errorf("resolving latest version of %s: %w", p.spec.Name, err)
	}
	if v == "" {
		return "", fmt.Errorf("%s: %w", p.spec.Name, ErrVersionNotFound)
	}
	return v, nil
}

// installVersion writes version under an exclusive lock on its destination.
func (p *Package) installVersion(ctx context.Context, version string) error {
	if p.installer == nil {
		return fmt.Errorf("%s: no installer configured", p.spec.Name)
	}

	dest := p.spec.TargetPath
	if p.CacheMode() {
		dest = EntryPath(p.spec.StoreDir, p.spec.Name, version)
	}

	lock, err := platform.Lock(dest + ".lock")
	if err != nil {
		return err
	}
	defer lock.Release()

	if p.absent[dest] {
		delete(p.absent, dest)
		if ok, err := pathExists(dest); err == nil && ok {
			p.logger.Debug("package installed by another run", "name", p.spec.Name, "version", version)
			return nil
		}
	}

	p.logger.Debug("installing package", "name", p.spec.Name, "version", version, "dest", dest)
	if err := p.installer.Install(ctx, installer.Request{Name: p.spec.Name, Version: version, Dest: dest}); err != nil {
		return err
	}

	if p.CacheMode() {
		link := filepath.Join(p.spec.StoreDir, filepath.FromSlash(p.spec.Name))
		if err := linkCurrent(dest, link); err != nil {
			p.logger.Warn("could not link installed package", "link", link, "err", err)
		}
	}
	return nil
}

func linkCurrent(dest, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return err
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	return platform.ReplaceSymlink(abs, link)
}

// cached stats an entry path and remembers it when missing.
func (p *Package) cached(path string) (bool, error) {
	ok, err := pathExists(path)
	if err == nil && !ok {
		p.absent[path] = true
	}
	return ok, err
}

// installedVersion reads the version recorded in dir/package.json.
func installedVersion(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, entry.DescriptorFile))
	if err != nil {
		return ""
	}
	var d struct {
		Version string `json:"version"`
	}
	if json.Unmarshal(data, &d) != nil {
		return ""
	}
	return d.Version
}

func pathExists(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
