package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hatch-cli/hatch/internal/branding"
	"github.com/hatch-cli/hatch/internal/commands"
	"github.com/hatch-cli/hatch/internal/installer"
	"github.com/hatch-cli/hatch/internal/pkgcache"
	"github.com/hatch-cli/hatch/internal/runtime"
)

// ErrEntryNotFound is returned when a package declares no runnable entry.
var ErrEntryNotFound = errors.New("entry file not found")

// Config wires a Dispatcher.
type Config struct {
	// TargetPath runs a local package directory instead of the cache.
	TargetPath      string
	DependenciesDir string
	StoreDir        string

	Commands  *commands.Table
	Versions  pkgcache.VersionSource
	Installer installer.Installer
	Logger    *log.Logger

	// Runtime selects the runtime for an entry; nil uses DispatchRuntime.
	Runtime func(entry string) runtime.Runtime
	// Environ is the base child environment; nil uses os.Environ.
	Environ func() []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Dispatcher runs plugin commands.
type Dispatcher struct {
	cfg    Config
	logger *log.Logger
}

// New returns a Dispatcher for cfg.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Runtime == nil {
		cfg.Runtime = runtime.DispatchRuntime
	}
	if cfg.Environ == nil {
		cfg.Environ = os.Environ
	}
	return &Dispatcher{cfg: cfg, logger: logger}
}

// Dispatch resolves and runs inv. The returned code is the child's exit
// status; an error means the child never ran.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (int, error) {
	cmd, err := d.cfg.Commands.Lookup(inv.Command)
	if err != nil {
		return 1, err
	}

	pkg, err := d.resolvePackage(ctx, cmd)
	if err != nil {
		return 1, err
	}

	rootFile, err := pkg.RootFilePath()
	if err != nil {
		return 1, fmt.Errorf("resolving entry of %s: %w", cmd.Package, err)
	}
	d.logger.Debug("root file", "path", rootFile)
	if rootFile == "" {
		return 1, fmt.Errorf("%s: %w", cmd.Package, ErrEntryNotFound)
	}

	payload, err := Payload(inv, len(cmd.Args))
	if err != nil {
		return 1, err
	}

	id := uuid.NewString()
	env := d.cfg.Environ()
	env = runtime.SetEnv(env, branding.EnvVar("INVOCATION_ID"), id)

	rt := d.cfg.Runtime(rootFile)
	d.logger.Debug("starting command", "command", inv.Command, "runtime", rt.Name(), "invocation", id)

	code, err := rt.Run(ctx, runtime.Request{
		Entry:   rootFile,
		Payload: payload,
		Env:     env,
		Stdin:   d.cfg.Stdin,
		Stdout:  d.cfg.Stdout,
		Stderr:  d.cfg.Stderr,
	})
	if err != nil {
		return 1, err
	}
	d.logger.Debug("command finished", "command", inv.Command, "code", code)
	return code, nil
}

// resolvePackage returns the package backing cmd, installing or updating
// it first unless a local target path overrides the cache.
func (d *Dispatcher) resolvePackage(ctx context.Context, cmd commands.Command) (*pkgcache.Package, error) {
	opts := pkgcache.Options{
		Versions:  d.cfg.Versions,
		Installer: d.cfg.Installer,
		Logger:    d.logger,
	}

	if d.cfg.TargetPath != "" {
		d.logger.Debug("target path", "path", d.cfg.TargetPath)
		opts.Spec = pkgcache.Spec{Name: cmd.Package, Version: cmd.Version, TargetPath: d.cfg.TargetPath}
		return pkgcache.New(opts)
	}

	d.logger.Debug("store dir", "path", d.cfg.StoreDir)
	opts.Spec = pkgcache.Spec{
		Name:       cmd.Package,
		Version:    cmd.Version,
		TargetPath: d.cfg.DependenciesDir,
		StoreDir:   d.cfg.StoreDir,
	}
	pkg, err := pkgcache.New(opts)
	if err != nil {
		return nil, err
	}

	exists, err := pkg.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		err = pkg.Update(ctx)
	} else {
		err = pkg.Install(ctx)
	}
	if err != nil {
		return nil, err
	}
	d.logger.Debug("install complete", "name", cmd.Package, "version", pkg.Spec().Version)
	return pkg, nil
}
