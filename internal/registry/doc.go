// Package registry talks to an npm-style package registry. It fetches the
// metadata document ("packument") for a package name, exposes the published
// versions as a catalog, and resolves concrete versions from that catalog:
// the latest release, or the highest release newer than a baseline.
package registry
