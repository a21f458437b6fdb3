package updater

import (
	"strings"

	"github.com/hatch-cli/hatch/internal/registry"
)

// IsDevBuild reports whether version identifies an unreleased build.
func IsDevBuild(version string) bool {
	if version == "" || version == "dev" || strings.HasSuffix(version, "-dev") {
		return true
	}
	_, err := registry.CompareVersions(version, version)
	return err != nil
}
