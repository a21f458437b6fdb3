package commands

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCommand is returned when a command name has no table entry.
var ErrUnknownCommand = errors.New("unknown command")

// Flag types understood by the CLI.
const (
	FlagBool   = "bool"
	FlagString = "string"
	FlagInt    = "int"
)

// Table maps command names to the packages that implement them.
type Table struct {
	Commands map[string]Command `yaml:"commands" json:"commands"`
}

// Command describes one plugin command.
type Command struct {
	Name        string   `yaml:"-" json:"-"`
	Package     string   `yaml:"package" json:"package"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Args        []string `yaml:"args,omitempty" json:"args,omitempty"`
	Flags       []Flag   `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// Flag declares an option accepted by a plugin command.
type Flag struct {
	Name    string      `yaml:"name" json:"name"`
	Short   string      `yaml:"short,omitempty" json:"short,omitempty"`
	Type    string      `yaml:"type,omitempty" json:"type,omitempty"`
	Default interface{} `yaml:"default,omitempty" json:"default,omitempty"`
	Usage   string      `yaml:"usage,omitempty" json:"usage,omitempty"`
}

// Lookup returns the command registered under name.
func (t *Table) Lookup(name string) (Command, error) {
	if t != nil {
		if c, ok := t.Commands[name]; ok {
			return c, nil
		}
	}
	return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, name)
}

// Names returns the command names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Commands))
	for n := range t.Commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Use returns a cobra usage line such as "init [projectName]".
func (c Command) Use() string {
	use := c.Name
	for _, a := range c.Args {
		use += " [" + a + "]"
	}
	return use
}
