package registry

// Packument is the registry metadata document returned by GET {registry}/{name}.
// Only the fields the CLI consumes are decoded.
type Packument struct {
	Name     string                 `json:"name"`
	DistTags map[string]string      `json:"dist-tags"`
	Versions map[string]VersionMeta `json:"versions"`
}

// VersionMeta is the per-version entry of a packument.
type VersionMeta struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`
	Dist    Dist   `json:"dist"`
}

// Dist locates and authenticates the tarball of one published version.
type Dist struct {
	Tarball   string `json:"tarball"`
	Shasum    string `json:"shasum"`
	Integrity string `json:"integrity"`
}

// Catalog returns the version keys of the packument in no particular order.
// A nil packument yields an empty catalog.
func (p *Packument) Catalog() []string {
	if p == nil {
		return []string{}
	}
	versions := make([]string, 0, len(p.Versions))
	for v := range p.Versions {
		versions = append(versions, v)
	}
	return versions
}

// Version returns the metadata of a single published version.
func (p *Packument) Version(v string) (VersionMeta, bool) {
	if p == nil {
		return VersionMeta{}, false
	}
	meta, ok := p.Versions[v]
	return meta, ok
}
