package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/hatch-cli/hatch/internal/branding"
)

// Settings is the resolved configuration for one process.
type Settings struct {
	UserHome        string
	ConfigDir       string
	Home            string // cache home holding dependencies/
	Registry        string
	RegistryToken   string
	RegistryTimeout time.Duration
	TargetPath      string // local package override; empty uses the cache
	LogLevel        string
	LogFile         string
	CommandsFile    string
}

// DependenciesDir is the package root used for cache-mode installs.
func (s Settings) DependenciesDir() string {
	return filepath.Join(s.Home, "dependencies")
}

// StoreDir holds one directory per cached package version.
func (s Settings) StoreDir() string {
	return filepath.Join(s.DependenciesDir(), "node_modules")
}

// VersionCheckFile caches the result of the self-update check.
func (s Settings) VersionCheckFile() string {
	return filepath.Join(s.ConfigDir, "version-check.json")
}

// Resolve reads the loaded configuration into a Settings value. It fails
// when the user's home directory cannot be determined.
func Resolve() (Settings, error) {
	userHome, err := UserHome()
	if err != nil {
		return Settings{}, err
	}
	configDir := filepath.Join(userHome, branding.HomeDir())

	home := viper.GetString(KeyHome)
	if home == "" {
		home = configDir
	}
	home, err = filepath.Abs(home)
	if err != nil {
		return Settings{}, fmt.Errorf("resolving %s: %w", KeyHome, err)
	}

	timeout := viper.GetDuration(KeyRegistryTimeout)
	if timeout <= 0 {
		return Settings{}, fmt.Errorf("invalid %s %q", KeyRegistryTimeout, viper.GetString(KeyRegistryTimeout))
	}

	s := Settings{
		UserHome:        userHome,
		ConfigDir:       configDir,
		Home:            home,
		Registry:        viper.GetString(KeyRegistry),
		RegistryToken:   viper.GetString(KeyRegistryToken),
		RegistryTimeout: timeout,
		TargetPath:      viper.GetString(KeyTargetPath),
		LogLevel:        viper.GetString(KeyLogLevel),
		LogFile:         viper.GetString(KeyLogFile),
		CommandsFile:    viper.GetString(KeyCommandsFile),
	}
	if s.Registry == "" {
		s.Registry = branding.DefaultRegistry()
	}
	if s.TargetPath != "" {
		if s.TargetPath, err = filepath.Abs(s.TargetPath); err != nil {
			return Settings{}, fmt.Errorf("resolving %s: %w", KeyTargetPath, err)
		}
	}
	return s, nil
}
