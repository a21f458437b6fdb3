package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hatch-cli/hatch/internal/branding"
	"github.com/hatch-cli/hatch/internal/commands"
	"github.com/hatch-cli/hatch/internal/config"
	"github.com/hatch-cli/hatch/internal/logging"
	"github.com/hatch-cli/hatch/internal/platform"
	"github.com/hatch-cli/hatch/internal/updater"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagDebug      bool
	flagTargetPath string
	flagRegistry   string
)

// app holds the state resolved once per process.
var app struct {
	settings config.Settings
	logger   *log.Logger
	closeLog func() error
	table    *commands.Table
	updater  *updater.Updater
	skipped  []string // table entries that could not be registered
	dropped  bool     // started through sudo and switched back to the user
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` runs commands that are published as packages to an npm registry.
Each command's package is downloaded on first use, cached under ~/.hatch and
kept up to date automatically.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagDebug, "debug", "d", false, "Enable debug logging")
	pf.StringVarP(&flagTargetPath, "target-path", "t", "", "Run commands from a local package directory")
	pf.StringVar(&flagRegistry, "registry", "", "Package registry URL")

	_ = viper.BindPFlag(config.KeyTargetPath, pf.Lookup("target-path"))
	_ = viper.BindPFlag(config.KeyRegistry, pf.Lookup("registry"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	// Before anything reads HOME or touches the cache.
	dropped, err := platform.DropRoot()
	if err != nil {
		return err
	}
	app.dropped = dropped

	if err := config.Load(); err != nil {
		return err
	}
	table, err := commands.Load(config.Get(config.KeyCommandsFile))
	if err != nil {
		return err
	}
	app.table = table
	registerPluginCommands(rootCmd, table)

	err = rootCmd.Execute()
	if app.updater != nil {
		app.updater.Wait(500 * time.Millisecond)
	}
	if app.closeLog != nil {
		_ = app.closeLog()
	}
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		return &unknownCommandError{err: err, available: availableCommands(rootCmd)}
	}
	return err
}

// setup resolves settings and the logger once flags are parsed.
func setup(cmd *cobra.Command, args []string) error {
	settings, err := config.Resolve()
	if err != nil {
		if errors.Is(err, config.ErrNoHomeDir) {
			return fmt.Errorf("%w: set HOME or %s", err, branding.EnvVar("HOME"))
		}
		return err
	}
	app.settings = settings

	logger, closeLog, err := logging.New(logging.Options{
		Prefix: branding.CLIName(),
		Level:  settings.LogLevel,
		Debug:  flagDebug,
		File:   settings.LogFile,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	app.logger = logger
	app.closeLog = closeLog

	if app.dropped {
		logger.Debug("dropped root privileges", "home", settings.UserHome)
	}
	for _, msg := range app.skipped {
		logger.Warn(msg)
	}

	// Commands that manage versions themselves skip the banner.
	switch cmd.Name() {
	case "update", "version", "config", "get", "set":
		return nil
	}
	app.updater = newUpdater(settings, logger)
	app.updater.CheckAndPrintBanner(cmd.ErrOrStderr())
	return nil
}

func newUpdater(s config.Settings, logger *log.Logger) *updater.Updater {
	return updater.New(buildVersion, newRegistryClient(s, logger),
		updater.WithCacheFile(s.VersionCheckFile()),
		updater.WithLogger(logger),
	)
}

func availableCommands(root *cobra.Command) []string {
	var names []string
	for _, c := range root.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	return names
}
