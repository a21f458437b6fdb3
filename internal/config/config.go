package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/hatch-cli/hatch/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognised configuration keys.
const (
	KeyRegistry        = "registry"
	KeyRegistryToken   = "registry_token"
	KeyRegistryTimeout = "registry_timeout"
	KeyHome            = "home"
	KeyTargetPath      = "target_path"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
	KeyCommandsFile    = "commands_file"
)

// ErrNoHomeDir is returned when the user's home directory cannot be found.
var ErrNoHomeDir = errors.New("user home directory not found")

var knownKeys = []string{
	KeyRegistry,
	KeyRegistryToken,
	KeyRegistryTimeout,
	KeyHome,
	KeyTargetPath,
	KeyLogLevel,
	KeyLogFile,
	KeyCommandsFile,
}

// Keys returns the recognised configuration keys.
func Keys() []string {
	return slices.Clone(knownKeys)
}

// IsKnownKey reports whether key is a recognised configuration key.
func IsKnownKey(key string) bool {
	return slices.Contains(knownKeys, key)
}

// UserHome returns the user's home directory.
func UserHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %v", ErrNoHomeDir, err)
	}
	return home, nil
}

// Dir returns the path to the config directory (~/.hatch/).
func Dir() string {
	home, err := UserHome()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.hatch/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from ~/.env, the config file and the
// environment. A missing config file is not an error.
func Load() error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	for _, key := range knownKeys {
		// AutomaticEnv only covers keys viper already knows about.
		_ = viper.BindEnv(key)
	}

	viper.SetDefault(KeyRegistry, branding.DefaultRegistry())
	viper.SetDefault(KeyRegistryTimeout, "15s")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyCommandsFile, filepath.Join(Dir(), "commands.yaml"))

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// loadDotEnv loads ~/.env without overriding variables already set.
func loadDotEnv() error {
	home, err := UserHome()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if key == KeyRegistryTimeout {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	// The file gets its own instance so env, flag and default values held
	// by the global viper are never written to disk.
	configFile := FilePath()
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}
	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}
