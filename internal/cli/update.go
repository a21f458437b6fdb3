package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatch-cli/hatch/internal/branding"
	"github.com/hatch-cli/hatch/internal/installer"
	"github.com/hatch-cli/hatch/internal/pkgcache"
	"github.com/hatch-cli/hatch/internal/updater"
)

var updateCheck bool

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "Only check whether a newer "+branding.CLIName()+" is published")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update cached command packages and check for a newer CLI",
	Long: `Brings every cached command package up to the registry's latest version
and reports whether a newer release of the CLI itself is available.

  hatch update            # update cached packages, then check the CLI
  hatch update --check    # check the CLI only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !updateCheck {
			if err := updateCachedPackages(cmd); err != nil {
				return err
			}
		}
		return checkSelf(cmd)
	},
}

// updateCachedPackages runs Update for every table command whose package
// is already in the cache.
func updateCachedPackages(cmd *cobra.Command) error {
	s := app.settings
	client := newRegistryClient(s, app.logger)
	inst := installer.NewTarballInstaller(client, app.logger)
	out := cmd.OutOrStdout()

	cached, err := pkgcache.List(s.StoreDir())
	if err != nil {
		return err
	}
	present := make(map[string]bool)
	for _, e := range cached {
		present[e.Name] = true
	}

	for _, name := range app.table.Names() {
		c := app.table.Commands[name]
		if !present[c.Package] {
			continue
		}
		pkg, err := pkgcache.New(pkgcache.Options{
			Spec: pkgcache.Spec{
				Name:       c.Package,
				Version:    pkgcache.LatestTag,
				TargetPath: s.DependenciesDir(),
				StoreDir:   s.StoreDir(),
			},
			Versions:  client,
			Installer: inst,
			Logger:    app.logger,
		})
		if err != nil {
			return err
		}
		if err := pkg.Update(cmd.Context()); err != nil {
			return fmt.Errorf("updating %s: %w", c.Package, err)
		}
		fmt.Fprintf(out, "%s: %s@%s\n", name, c.Package, pkg.Spec().Version)
	}
	return nil
}

func checkSelf(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	u := newUpdater(app.settings, app.logger)

	res, err := u.Check(cmd.Context())
	if errors.Is(err, updater.ErrDevBuild) {
		fmt.Fprintf(out, "Development build (%s); skipping the version check\n", buildVersion)
		return nil
	}
	if err != nil {
		return err
	}
	if res.UpdateAvailable() {
		updater.PrintUpdateBanner(out, buildVersion, res.Next, u.Package())
		return nil
	}
	fmt.Fprintf(out, "You are on the latest version (%s)\n", buildVersion)
	return nil
}
