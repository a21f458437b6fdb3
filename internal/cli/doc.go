// Package cli defines the Cobra command tree for the hatch CLI. Built-in
// commands (version, config, update, cache) are registered at init time;
// plugin commands are added from the subcommand table just before the tree
// executes and delegate to the dispatch package.
package cli
