package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hatch-cli/hatch/internal/commands"
)

// Invocation is one call of a plugin command.
type Invocation struct {
	Command string
	Args    []string
	Options map[string]any
}

// BuildContext collects the declared flags of a command into an options map.
// Keys are camel-cased flag names. Flags the user did not set are included
// only when they declare a default. Keys starting with "_" and the key
// "parent" are never emitted.
func BuildContext(flags *pflag.FlagSet, declared []commands.Flag) (map[string]any, error) {
	opts := make(map[string]any)
	for _, f := range declared {
		key := camelCase(f.Name)
		if !allowedKey(key) {
			continue
		}
		pf := flags.Lookup(f.Name)
		if pf == nil || (!pf.Changed && f.Default == nil) {
			continue
		}

		var (
			v   any
			err error
		)
		switch f.Type {
		case commands.FlagString:
			v, err = flags.GetString(f.Name)
		case commands.FlagInt:
			v, err = flags.GetInt(f.Name)
		default:
			v, err = flags.GetBool(f.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("reading flag --%s: %w", f.Name, err)
		}
		opts[key] = v
	}
	return opts, nil
}

// Payload encodes the arguments handed to a plugin: the positional
// arguments followed by an object holding the command name and options.
// Missing declared positionals are sent as null so their indexes stay fixed.
func Payload(inv Invocation, declaredArgs int) (string, error) {
	n := max(len(inv.Args), declaredArgs)
	argv := make([]any, 0, n+1)
	for i := range n {
		if i < len(inv.Args) {
			argv = append(argv, inv.Args[i])
		} else {
			argv = append(argv, nil)
		}
	}

	obj := make(map[string]any, len(inv.Options)+1)
	for k, v := range inv.Options {
		if allowedKey(k) {
			obj[k] = v
		}
	}
	obj["name"] = inv.Command
	argv = append(argv, obj)

	data, err := json.Marshal(argv)
	if err != nil {
		return "", fmt.Errorf("encoding command context: %w", err)
	}
	return string(data), nil
}

func allowedKey(key string) bool {
	return key != "" && !strings.HasPrefix(key, "_") && key != "parent"
}

// camelCase converts a flag name like "max-warnings" to "maxWarnings".
func camelCase(name string) string {
	parts := strings.Split(name, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
