package cli

import (
	"github.com/charmbracelet/log"

	"github.com/hatch-cli/hatch/internal/config"
	"github.com/hatch-cli/hatch/internal/dispatch"
	"github.com/hatch-cli/hatch/internal/installer"
	"github.com/hatch-cli/hatch/internal/registry"
)

func newRegistryClient(s config.Settings, logger *log.Logger) *registry.Client {
	return registry.NewClient(
		registry.WithRegistry(s.Registry),
		registry.WithToken(s.RegistryToken),
		registry.WithTimeout(s.RegistryTimeout),
		registry.WithLogger(logger),
	)
}

func newDispatcher(s config.Settings, logger *log.Logger) *dispatch.Dispatcher {
	client := newRegistryClient(s, logger)
	return dispatch.New(dispatch.Config{
		TargetPath:      s.TargetPath,
		DependenciesDir: s.DependenciesDir(),
		StoreDir:        s.StoreDir(),
		Commands:        app.table,
		Versions:        client,
		Installer:       installer.NewTarballInstaller(client, logger),
		Logger:          logger,
	})
}
