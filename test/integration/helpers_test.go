//go:build integration

package integration_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HATCH_HOME, holds dependencies/
	ProjectDir string // working directory for plugin runs
}

func (e *testEnv) DependenciesDir() string { return filepath.Join(e.HomeDir, "dependencies") }
func (e *testEnv) StoreDir() string        { return filepath.Join(e.DependenciesDir(), "node_modules") }

// setupTestEnv creates isolated temp directories and points HOME and
// HATCH_HOME at them so nothing touches the real user directories.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HATCH_HOME", env.HomeDir)
	return env
}

// fakeRegistry serves packuments and tarballs for packages published
// during a test.
type fakeRegistry struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	packages map[string]map[string][]byte // name -> version -> tarball
	corrupt  map[string]bool              // name@version served with a bad integrity
	hits     map[string]int
}

func newFakeRegistry(t *testing.T) *fakeRegistry {
	t.Helper()
	r := &fakeRegistry{
		t:        t,
		packages: make(map[string]map[string][]byte),
		corrupt:  make(map[string]bool),
		hits:     make(map[string]int),
	}
	r.server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.server.Close)
	return r
}

func (r *fakeRegistry) URL() string { return r.server.URL }

// publish adds a version whose entry is a shell script exiting with code.
func (r *fakeRegistry) publish(name, version string, code int) {
	r.t.Helper()
	files := map[string]string{
		"package/package.json": `{"name":"` + name + `","version":"` + version + `","main":"bin/run"}`,
		"package/bin/run": "#!/bin/sh\n" +
			"printf '%s' \"$1\" > argv.json\n" +
			"printf '" + version + "' > ran-version\n" +
			"exit " + itoa(code) + "\n",
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.packages[name] == nil {
		r.packages[name] = make(map[string][]byte)
	}
	r.packages[name][version] = buildTarball(r.t, files)
}

func (r *fakeRegistry) corruptIntegrity(name, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corrupt[name+"@"+version] = true
}

func (r *fakeRegistry) packumentHits(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[name]
}

func (r *fakeRegistry) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := strings.TrimPrefix(req.URL.Path, "/")
	if name, version, ok := strings.Cut(path, "/-/"); ok {
		data, found := r.packages[name][version]
		if !found {
			http.NotFound(w, req)
			return
		}
		w.Write(data)
		return
	}

	versions, found := r.packages[path]
	if !found {
		http.NotFound(w, req)
		return
	}
	r.hits[path]++

	doc := map[string]any{"name": path}
	metas := make(map[string]any)
	for v, data := range versions {
		sum := sha512.Sum512(data)
		integrity := "sha512-" + base64.StdEncoding.EncodeToString(sum[:])
		if r.corrupt[path+"@"+v] {
			integrity = "sha512-" + base64.StdEncoding.EncodeToString(make([]byte, 64))
		}
		metas[v] = map[string]any{
			"name":    path,
			"version": v,
			"dist": map[string]any{
				"tarball":   r.server.URL + "/" + path + "/-/" + v,
				"integrity": integrity,
			},
		}
	}
	doc["versions"] = metas
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func buildTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		mode := int64(0644)
		if strings.Contains(name, "/bin/") {
			mode = 0755
		}
		hdr := &tar.Header{Name: name, Mode: mode, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// assertFileContent fails the test if path does not hold want.
func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, data, want)
	}
}
