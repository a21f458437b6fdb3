// Package commands holds the subcommand table: which registry package backs
// each plugin command, the version to run, and the arguments and flags the
// command declares. A default table is embedded in the binary and may be
// extended by a user file.
package commands
