package cargo

// Package returns the package with the given id.
func (m *Metadata) Package(id PackageID) (*Package, bool) {
	for i := range m.Packages {
		if m.Packages[i].ID == id {
			return &m.Packages[i], true
		}
	}
	return nil, false
}

// PackageByName returns the first package with the given name. Several
// packages can share a name when different versions are in the graph.
func (m *Metadata) PackageByName(name string) (*Package, bool) {
	for i := range m.Packages {
		if m.Packages[i].Name == name {
			return &m.Packages[i], true
		}
	}
	return nil, false
}

// WorkspacePackages returns the workspace members in WorkspaceMembers order.
func (m *Metadata) WorkspacePackages() []*Package {
	out := make([]*Package, 0, len(m.WorkspaceMembers))
	for _, id := range m.WorkspaceMembers {
		if p, ok := m.Package(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// IsWorkspaceMember reports whether id is one of the workspace members.
func (m *Metadata) IsWorkspaceMember(id PackageID) bool {
	for _, w := range m.WorkspaceMembers {
		if w == id {
			return true
		}
	}
	return false
}

// RootPackage returns the package cargo was run against. It requires a
// resolve graph and is absent for virtual workspaces.
func (m *Metadata) RootPackage() (*Package, bool) {
	if m.Resolve == nil || m.Resolve.Root == nil {
		return nil, false
	}
	return m.Package(*m.Resolve.Root)
}

// Node returns the resolve node with the given id.
func (r *Resolve) Node(id PackageID) (*Node, bool) {
	for i := range r.Nodes {
		if r.Nodes[i].ID == id {
			return &r.Nodes[i], true
		}
	}
	return nil, false
}

// Dependency returns the declared dependency with the given name.
func (p *Package) Dependency(name string) (*Dependency, bool) {
	for i := range p.Dependencies {
		if p.Dependencies[i].Name == name {
			return &p.Dependencies[i], true
		}
	}
	return nil, false
}

// TargetsOfKind returns the targets having the given kind, in declaration order.
func (p *Package) TargetsOfKind(kind string) []Target {
	var out []Target
	for _, t := range p.Targets {
		if t.Is(kind) {
			out = append(out, t)
		}
	}
	return out
}
