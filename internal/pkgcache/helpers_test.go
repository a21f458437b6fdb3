package pkgcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/hatch-cli/hatch/internal/installer"
)

// stubVersions returns a fixed latest version and counts lookups.
type stubVersions struct {
	mu     sync.Mutex
	latest string
	err    error
	calls  int
}

func (s *stubVersions) LatestVersion(context.Context, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.latest, s.err
}

func (s *stubVersions) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubInstaller writes a minimal package into the requested destination.
type stubInstaller struct {
	mu       sync.Mutex
	requests []installer.Request
	fail     error
}

func (s *stubInstaller) Install(_ context.Context, req installer.Request) error {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if err := os.MkdirAll(filepath.Join(req.Dest, "lib"), 0755); err != nil {
		return err
	}
	pkgJSON := `{"name":"` + req.Name + `","version":"` + req.Version + `","main":"lib/index.js"}`
	if err := os.WriteFile(filepath.Join(req.Dest, "package.json"), []byte(pkgJSON), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(req.Dest, "lib", "index.js"), []byte("module.exports = () => {}\n"), 0644)
}

func (s *stubInstaller) Requests() []installer.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]installer.Request(nil), s.requests...)
}

var errOffline = errors.New("offline")
