// Package doctor inspects the local installation: the package cache, the
// Node.js runtime and the configured registry. With fix enabled it repairs
// what it safely can.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/hatch-cli/hatch/internal/platform"
)

// MinNodeVersion is the oldest Node.js release plugin packages support.
const MinNodeVersion = "12.0.0"

// CatalogSource lists the published versions of a package.
// *registry.Client satisfies it.
type CatalogSource interface {
	FetchVersions(ctx context.Context, name string) ([]string, error)
}

// Options configures Run.
type Options struct {
	StoreDir string
	Fix      bool

	// Registry and Probe are checked when set.
	Registry CatalogSource
	Probe    string // package looked up to test the registry

	// NodeVersion reports the installed Node.js version; nil runs node.
	NodeVersion func(ctx context.Context) (string, error)
}

// Report counts the problems found.
type Report struct {
	Problems int
	Fixed    int
}

// Run performs every check and writes one line per finding to w.
func Run(ctx context.Context, w io.Writer, opts Options) Report {
	var r Report
	fmt.Fprintln(w, "Cache check:")
	r.checkStore(w, opts.StoreDir, opts.Fix)
	r.checkScratch(w, opts.StoreDir, opts.Fix)
	r.checkLinks(w, opts.StoreDir, opts.Fix)

	fmt.Fprintln(w, "Runtime check:")
	nodeVersion := opts.NodeVersion
	if nodeVersion == nil {
		nodeVersion = installedNodeVersion
	}
	r.checkNode(ctx, w, nodeVersion)

	if opts.Registry != nil && opts.Probe != "" {
		fmt.Fprintln(w, "Registry check:")
		r.checkRegistry(ctx, w, opts.Registry, opts.Probe)
	}
	return r
}

func (r *Report) checkStore(w io.Writer, dir string, fix bool) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", dir)
		if !fix {
			fmt.Fprintln(w, "         It is created on the first command run")
			return
		}
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			r.Problems++
			fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", dir, mkErr)
			return
		}
		r.Fixed++
		fmt.Fprintf(w, "  [FIX ] Created %s\n", dir)
		return
	}
	if err != nil {
		r.Problems++
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", dir, err)
		return
	}
	if !info.IsDir() {
		r.Problems++
		fmt.Fprintf(w, "  [FAIL] %s exists but is not a directory\n", dir)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", dir)
}

// checkScratch reports staging directories and downloads left behind by
// interrupted installs.
func (r *Report) checkScratch(w io.Writer, dir string, fix bool) {
	for _, path := range scratchPaths(dir) {
		r.Problems++
		fmt.Fprintf(w, "  [WARN] %s is left over from an interrupted install\n", path)
		if !fix {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			fmt.Fprintf(w, "  [FAIL] Could not remove %s: %v\n", path, err)
			continue
		}
		r.Fixed++
		fmt.Fprintf(w, "  [FIX ] Removed %s\n", path)
	}
}

func scratchPaths(dir string) []string {
	var found []string
	for _, d := range listDirs(dir) {
		name := filepath.Base(d)
		if isScratch(name) {
			found = append(found, d)
			continue
		}
		// Scoped entries and links nest one level deeper.
		if strings.HasPrefix(name, "_@") || strings.HasPrefix(name, "@") {
			for _, c := range listDirs(d) {
				if isScratch(filepath.Base(c)) {
					found = append(found, c)
				}
			}
		}
	}
	return found
}

func isScratch(name string) bool {
	return strings.Contains(name, ".hatch-tmp-") || strings.HasPrefix(name, ".hatch-dl-")
}

func listDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths
}

// checkLinks reports <name> links whose target entry has disappeared.
func (r *Report) checkLinks(w io.Writer, dir string, fix bool) {
	var links []string
	for _, p := range listDirs(dir) {
		name := filepath.Base(p)
		switch {
		case strings.HasPrefix(name, "@"):
			links = append(links, listDirs(p)...)
		case !strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "."):
			links = append(links, p)
		}
	}

	for _, link := range links {
		target, err := platform.ReadSymlinkTarget(link)
		if err != nil {
			continue
		}
		if _, err := os.Stat(target); err == nil {
			fmt.Fprintf(w, "  [ OK ] %s -> %s\n", link, target)
			continue
		}
		r.Problems++
		fmt.Fprintf(w, "  [WARN] %s -> %s (target does not exist)\n", link, target)
		if fix {
			if err := platform.RemoveSymlink(link); err != nil {
				fmt.Fprintf(w, "  [FAIL] Could not remove %s: %v\n", link, err)
				continue
			}
			r.Fixed++
			fmt.Fprintf(w, "  [FIX ] Removed %s\n", link)
		}
	}
}

func (r *Report) checkNode(ctx context.Context, w io.Writer, nodeVersion func(context.Context) (string, error)) {
	raw, err := nodeVersion(ctx)
	if err != nil {
		r.Problems++
		fmt.Fprintf(w, "  [MISS] node not available: %v\n", err)
		fmt.Fprintln(w, "         JavaScript commands need Node.js "+MinNodeVersion+" or newer")
		return
	}
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		r.Problems++
		fmt.Fprintf(w, "  [FAIL] could not parse node version %q\n", raw)
		return
	}
	if v.LessThan(semver.MustParse(MinNodeVersion)) {
		r.Problems++
		fmt.Fprintf(w, "  [WARN] node %s is older than %s\n", v, MinNodeVersion)
		return
	}
	fmt.Fprintf(w, "  [ OK ] node %s\n", v)
}

func (r *Report) checkRegistry(ctx context.Context, w io.Writer, src CatalogSource, probe string) {
	versions, err := src.FetchVersions(ctx, probe)
	if err != nil {
		r.Problems++
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	if len(versions) == 0 {
		fmt.Fprintf(w, "  [WARN] registry reachable but lists no versions of %s\n", probe)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s has %d published versions\n", probe, len(versions))
}

func installedNodeVersion(ctx context.Context) (string, error) {
	bin, err := exec.LookPath("node")
	if err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
