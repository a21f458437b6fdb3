// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building; Go's
// //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	GoModule        string `yaml:"go_module"`
	NpmPackage      string `yaml:"npm_package"`
	DefaultRegistry string `yaml:"default_registry"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:         "hatch",
			DisplayName:     "Hatch",
			Description:     "Scaffolding CLI whose commands are installed on demand",
			HomeDir:         ".hatch",
			EnvPrefix:       "HATCH",
			GoModule:        "github.com/hatch-cli/hatch",
			NpmPackage:      "@hatch-cli/hatch",
			DefaultRegistry: "https://registry.npmjs.org",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "hatch").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Hatch").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".hatch").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "HATCH").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// NpmPackage returns the registry package name the CLI itself is published
// under. The self-update check looks this name up.
func NpmPackage() string { load(); return defaults.NpmPackage }

// DefaultRegistry returns the registry base URL used when none is configured.
func DefaultRegistry() string { load(); return defaults.DefaultRegistry }

// UserAgent returns the User-Agent header value for outgoing requests.
func UserAgent() string { load(); return defaults.CLIName + "-cli" }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "HATCH_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
