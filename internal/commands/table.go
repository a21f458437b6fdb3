package commands

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultVersion is used when a command does not pin a version.
const DefaultVersion = "latest"

// Default returns the built-in command table.
func Default() (*Table, error) {
	return Parse(defaultsYAML, "defaults.yaml")
}

// Load returns the built-in table with the commands from path layered on
// top. A missing file is not an error.
func Load(path string) (*Table, error) {
	t, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	user, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	t.Merge(user)
	return t, nil
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte, source string) (*Table, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing command table %s: %w", source, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Source: source, Issues: result.Issues}
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing command table %s: %w", source, err)
	}
	if t.Commands == nil {
		t.Commands = make(map[string]Command)
	}

	var issues []ValidationIssue
	for name, c := range t.Commands {
		c.Name = name
		if c.Version == "" {
			c.Version = DefaultVersion
		}
		for i := range c.Flags {
			if c.Flags[i].Type == "" {
				c.Flags[i].Type = FlagBool
			}
		}
		issues = append(issues, checkFlags(c)...)
		t.Commands[name] = c
	}
	if len(issues) > 0 {
		return nil, &InvalidError{Source: source, Issues: issues}
	}
	return &t, nil
}

// Merge copies every command of other into t, replacing same-named entries.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	if t.Commands == nil {
		t.Commands = make(map[string]Command, len(other.Commands))
	}
	for name, c := range other.Commands {
		t.Commands[name] = c
	}
}

// checkFlags reports duplicate names or shorthands and defaults that do not
// match the declared type.
func checkFlags(c Command) []ValidationIssue {
	var issues []ValidationIssue
	names := make(map[string]bool)
	shorts := make(map[string]bool)

	for i, f := range c.Flags {
		path := fmt.Sprintf("/commands/%s/flags/%d", c.Name, i)
		if names[f.Name] {
			issues = append(issues, ValidationIssue{Path: path + "/name", Keyword: "unique", Message: fmt.Sprintf("duplicate flag %q", f.Name)})
		}
		names[f.Name] = true
		if f.Name == "name" {
			issues = append(issues, ValidationIssue{Path: path + "/name", Keyword: "reserved", Message: `flag name "name" is reserved for the command name`})
		}
		if f.Short != "" {
			if shorts[f.Short] {
				issues = append(issues, ValidationIssue{Path: path + "/short", Keyword: "unique", Message: fmt.Sprintf("duplicate shorthand %q", f.Short)})
			}
			shorts[f.Short] = true
		}
		if f.Default != nil && !defaultMatches(f) {
			issues = append(issues, ValidationIssue{Path: path + "/default", Keyword: "type", Message: fmt.Sprintf("default does not match type %s", f.Type)})
		}
	}
	return issues
}

func defaultMatches(f Flag) bool {
	switch f.Type {
	case FlagBool:
		_, ok := f.Default.(bool)
		return ok
	case FlagString:
		_, ok := f.Default.(string)
		return ok
	case FlagInt:
		_, ok := f.Default.(int)
		return ok
	}
	return false
}
