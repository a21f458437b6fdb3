package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatch-cli/hatch/internal/branding"
	"github.com/hatch-cli/hatch/internal/doctor"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair problems that can be fixed automatically")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the package cache, Node.js and the registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.settings
		report := doctor.Run(cmd.Context(), cmd.OutOrStdout(), doctor.Options{
			StoreDir: s.StoreDir(),
			Fix:      doctorFix,
			Registry: newRegistryClient(s, app.logger),
			Probe:    branding.NpmPackage(),
		})
		remaining := report.Problems - report.Fixed
		if remaining > 0 {
			return fmt.Errorf("%d problem(s) found", remaining)
		}
		return nil
	},
}
