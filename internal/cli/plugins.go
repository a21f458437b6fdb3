package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatch-cli/hatch/internal/commands"
	"github.com/hatch-cli/hatch/internal/dispatch"
)

const pluginGroup = "plugins"

// reservedNames are added by cobra itself at execution time.
var reservedNames = map[string]bool{"help": true, "completion": true}

// registerPluginCommands adds one subcommand per table entry. Entries that
// collide with a built-in command are skipped and reported once logging is
// up.
func registerPluginCommands(root *cobra.Command, table *commands.Table) {
	if !root.ContainsGroup(pluginGroup) {
		root.AddGroup(&cobra.Group{ID: pluginGroup, Title: "Plugin Commands:"})
	}
	for _, name := range table.Names() {
		c := table.Commands[name]
		if existing, _, err := root.Find([]string{name}); reservedNames[name] || (err == nil && existing != root) {
			app.skipped = append(app.skipped, fmt.Sprintf("command %q shadows a built-in and was not registered", name))
			continue
		}
		root.AddCommand(newPluginCommand(root, c))
	}
}

func newPluginCommand(root *cobra.Command, c commands.Command) *cobra.Command {
	short := c.Description
	if short == "" {
		short = "Run " + c.Package
	}
	cmd := &cobra.Command{
		Use:     c.Use(),
		Short:   short,
		GroupID: pluginGroup,
		Args:    cobra.MaximumNArgs(len(c.Args)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlugin(cmd, c, args)
		},
	}

	persistent := root.PersistentFlags()
	for _, f := range c.Flags {
		if persistent.Lookup(f.Name) != nil || (f.Short != "" && persistent.ShorthandLookup(f.Short) != nil) {
			app.skipped = append(app.skipped, fmt.Sprintf("flag --%s of command %q conflicts with a global flag and was not registered", f.Name, c.Name))
			continue
		}
		addFlag(cmd, f)
	}
	return cmd
}

func addFlag(cmd *cobra.Command, f commands.Flag) {
	fs := cmd.Flags()
	switch f.Type {
	case commands.FlagString:
		def, _ := f.Default.(string)
		fs.StringP(f.Name, f.Short, def, f.Usage)
	case commands.FlagInt:
		def, _ := f.Default.(int)
		fs.IntP(f.Name, f.Short, def, f.Usage)
	default:
		def, _ := f.Default.(bool)
		fs.BoolP(f.Name, f.Short, def, f.Usage)
	}
}

func runPlugin(cmd *cobra.Command, c commands.Command, args []string) error {
	opts, err := dispatch.BuildContext(cmd.Flags(), c.Flags)
	if err != nil {
		return err
	}

	d := newDispatcher(app.settings, app.logger)
	code, err := d.Dispatch(cmd.Context(), dispatch.Invocation{
		Command: c.Name,
		Args:    args,
		Options: opts,
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
