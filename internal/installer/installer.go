package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hatch-cli/hatch/internal/registry"
)

// tempSuffix marks scratch directories created next to a destination. A
// leftover one belongs to an install that never finished.
const tempSuffix = ".hatch-tmp-"

// ErrVersionUnavailable is returned when the registry does not publish the
// requested version.
var ErrVersionUnavailable = errors.New("version not published")

// Request names one package version and where it should be materialised.
type Request struct {
	Name    string
	Version string
	Dest    string
}

// Installer materialises package versions on disk.
type Installer interface {
	Install(ctx context.Context, req Request) error
}

// TarballInstaller installs packages from registry tarballs.
type TarballInstaller struct {
	client     *registry.Client
	httpClient *http.Client
	logger     *log.Logger
}

// NewTarballInstaller creates an installer that resolves tarball locations
// through client and downloads them with the client's HTTP transport.
func NewTarballInstaller(client *registry.Client, logger *log.Logger) *TarballInstaller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TarballInstaller{
		client:     client,
		httpClient: client.HTTPClient(),
		logger:     logger,
	}
}

// Install downloads, verifies and extracts req into req.Dest. An existing
// directory at req.Dest is replaced.
func (i *TarballInstaller) Install(ctx context.Context, req Request) error {
	doc, err := i.client.FetchPackument(ctx, req.Name)
	if err != nil {
		return err
	}
	meta, ok := doc.Version(req.Version)
	if !ok {
		return fmt.Errorf("%s@%s: %w", req.Name, req.Version, ErrVersionUnavailable)
	}
	if meta.Dist.Tarball == "" {
		return fmt.Errorf("%s@%s: registry lists no tarball", req.Name, req.Version)
	}

	parent := filepath.Dir(req.Dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", parent, err)
	}
	removeStale(req.Dest, i.logger)

	archive, err := i.download(ctx, meta.Dist.Tarball, parent)
	if err != nil {
		return fmt.Errorf("downloading %s@%s: %w", req.Name, req.Version, err)
	}
	defer os.Remove(archive)

	if err := VerifyIntegrity(archive, meta.Dist); err != nil {
		return fmt.Errorf("verifying %s@%s: %w", req.Name, req.Version, err)
	}

	staging, err := os.MkdirTemp(parent, filepath.Base(req.Dest)+tempSuffix)
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	if err := ExtractTarball(archive, staging); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("extracting %s@%s: %w", req.Name, req.Version, err)
	}

	if err := ReplaceDir(staging, req.Dest); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("installing %s@%s: %w", req.Name, req.Version, err)
	}

	i.logger.Debug("installed package", "name", req.Name, "version", req.Version, "dest", req.Dest)
	return nil
}

// download fetches url into a temporary file inside dir and returns its path.
func (i *TarballInstaller) download(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.CreateTemp(dir, ".hatch-dl-*.tgz")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing download: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// removeStale deletes scratch directories left next to dest by an install
// that crashed before renaming its result into place.
func removeStale(dest string, logger *log.Logger) {
	matches, _ := filepath.Glob(dest + tempSuffix + "*")
	for _, m := range matches {
		if err := os.RemoveAll(m); err != nil {
			logger.Warn("could not remove stale install directory", "path", m, "err", err)
			continue
		}
		logger.Debug("removed stale install directory", "path", m)
	}
}
