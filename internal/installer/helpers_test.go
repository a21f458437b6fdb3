package installer

import (
	"archive/tar"
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/hatch-cli/hatch/internal/registry"
)

// tarEntry is one file or directory placed in a test tarball.
type tarEntry struct {
	name string
	body string
	mode int64
	dir  bool
	link string
}

func buildTarball(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: e.mode}
		switch {
		case e.dir:
			hdr.Typeflag = tar.TypeDir
			if hdr.Mode == 0 {
				hdr.Mode = 0755
			}
		case e.link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.link
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
			if hdr.Mode == 0 {
				hdr.Mode = 0644
			}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
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

func sri512(data []byte) string {
	sum := sha512.Sum512(data)
	return "sha512-" + base64.StdEncoding.EncodeToString(sum[:])
}

// fakeRegistry serves one package with the given tarballs keyed by version.
type fakeRegistry struct {
	srv       *httptest.Server
	tarballs  map[string][]byte
	integrity map[string]string
	downloads int
}

func newFakeRegistry(t *testing.T, name string, tarballs map[string][]byte) *fakeRegistry {
	t.Helper()
	fr := &fakeRegistry{tarballs: tarballs, integrity: make(map[string]string)}
	for v, data := range tarballs {
		fr.integrity[v] = sri512(data)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tarballs/", func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Path[len("/tarballs/"):]
		data, ok := fr.tarballs[v]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fr.downloads++
		w.Write(data)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		doc := registry.Packument{Name: name, Versions: map[string]registry.VersionMeta{}}
		for v := range fr.tarballs {
			doc.Versions[v] = registry.VersionMeta{
				Name:    name,
				Version: v,
				Dist: registry.Dist{
					Tarball:   fmt.Sprintf("%s/tarballs/%s", fr.srv.URL, v),
					Integrity: fr.integrity[v],
				},
			}
		}
		json.NewEncoder(w).Encode(doc)
	})
	fr.srv = httptest.NewServer(mux)
	t.Cleanup(fr.srv.Close)
	return fr
}

func (fr *fakeRegistry) client() *registry.Client {
	return registry.NewClient(registry.WithRegistry(fr.srv.URL), registry.WithHTTPClient(fr.srv.Client()))
}
