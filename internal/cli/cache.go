package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hatch-cli/hatch/internal/pkgcache"
)

var cacheListJSON bool

func init() {
	cacheListCmd.Flags().BoolVar(&cacheListJSON, "json", false, "Output in JSON format")
	cacheCmd.AddCommand(cacheListCmd, cacheCleanCmd, cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the package cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached package versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := pkgcache.List(app.settings.StoreDir())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if cacheListJSON {
			if entries == nil {
				entries = []pkgcache.Entry{}
			}
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling cache entries: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "The package cache is empty.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tACTIVE\tPATH")
		for _, e := range entries {
			active := ""
			if e.Active {
				active = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Version, active, e.Path)
		}
		return w.Flush()
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached package",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := app.settings.StoreDir()
		if err := pkgcache.Clean(dir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", dir)
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), app.settings.StoreDir())
		return nil
	},
}
