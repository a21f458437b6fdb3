// Package dispatch turns a plugin command invocation into a running child
// process. It looks the command up in the subcommand table, makes sure the
// backing package is installed and current, resolves its entry file and
// hands it to the matching runtime.
package dispatch
