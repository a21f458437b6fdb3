// Package updater checks whether a newer release of the CLI itself has been
// published to the package registry. Results are cached for a day so the
// startup banner never waits on the network.
package updater
