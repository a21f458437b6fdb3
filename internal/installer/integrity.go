package installer

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/hatch-cli/hatch/internal/registry"
)

// sriAlgorithms lists the Subresource Integrity algorithms we can check,
// strongest first.
var sriAlgorithms = []struct {
	name string
	new  func() hash.Hash
}{
	{"sha512", sha512.New},
	{"sha384", sha512.New384},
	{"sha256", sha256.New},
	{"sha1", sha1.New},
}

// VerifyIntegrity checks archivePath against the dist metadata. The SRI
// integrity string wins when present; otherwise the hex sha1 shasum is used.
// Dist entries carrying neither are accepted unverified.
func VerifyIntegrity(archivePath string, dist registry.Dist) error {
	if dist.Integrity != "" {
		return verifySRI(archivePath, dist.Integrity)
	}
	if dist.Shasum != "" {
		actual, err := fileDigest(archivePath, sha1.New)
		if err != nil {
			return err
		}
		if got := hex.EncodeToString(actual); !strings.EqualFold(got, dist.Shasum) {
			return fmt.Errorf("shasum mismatch: expected %s, got %s", dist.Shasum, got)
		}
	}
	return nil
}

// verifySRI checks the strongest supported hash in an SRI string such as
// "sha512-<base64> sha1-<base64>".
func verifySRI(archivePath, integrity string) error {
	byAlgo := make(map[string]string)
	for _, token := range strings.Fields(integrity) {
		algo, digest, ok := strings.Cut(token, "-")
		if !ok {
			continue
		}
		// Drop any "?options" suffix allowed by the SRI grammar.
		digest, _, _ = strings.Cut(digest, "?")
		byAlgo[algo] = digest
	}

	for _, a := range sriAlgorithms {
		expected, ok := byAlgo[a.name]
		if !ok {
			continue
		}
		actual, err := fileDigest(archivePath, a.new)
		if err != nil {
			return err
		}
		if got := base64.StdEncoding.EncodeToString(actual); got != expected {
			return fmt.Errorf("integrity mismatch (%s): expected %s, got %s", a.name, expected, got)
		}
		return nil
	}
	return fmt.Errorf("unsupported integrity %q", integrity)
}

func fileDigest(path string, newHash func() hash.Hash) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive for checksum: %w", err)
	}
	defer f.Close()

	h := newHash()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("computing checksum: %w", err)
	}
	return h.Sum(nil), nil
}
