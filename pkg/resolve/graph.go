// Package resolve exposes the resolve section of a cargo metadata report as a
// directed graph.
//
// Edges point from a package to the packages it depends on. Cycles are
// permitted: a dev-dependency may depend back on the package that uses it.
package resolve

import (
	"cmp"
	stderrors "errors"
	"slices"

	"github.com/dominikbraun/graph"

	"github.com/matzehuels/cargometa/pkg/cargo"
	"github.com/matzehuels/cargometa/pkg/errors"
)

// ErrNoResolve is returned by [Build] for metadata decoded without dependency
// resolution.
var ErrNoResolve = errors.New(errors.ErrCodeInvalidInput, "metadata has no resolve graph; run with dependencies")

// Edge is a resolved dependency from From to To.
type Edge struct {
	From cargo.PackageID
	To   cargo.PackageID
}

// Graph is a read-only view over a resolve graph.
type Graph struct {
	md    *cargo.Metadata
	g     graph.Graph[string, string]
	nodes map[cargo.PackageID]*cargo.Node
	order []cargo.PackageID
}

// Build creates a Graph from decoded metadata. Every resolve node becomes a
// vertex, as does every package a node depends on.
func Build(m *cargo.Metadata) (*Graph, error) {
	if m == nil || m.Resolve == nil {
		return nil, ErrNoResolve
	}

	g := graph.New(graph.StringHash, graph.Directed())
	nodes := make(map[cargo.PackageID]*cargo.Node, len(m.Resolve.Nodes))
	order := make([]cargo.PackageID, 0, len(m.Resolve.Nodes))

	for i := range m.Resolve.Nodes {
		n := &m.Resolve.Nodes[i]
		if err := g.AddVertex(string(n.ID)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add vertex %s", n.ID)
		}
		nodes[n.ID] = n
		order = append(order, n.ID)
	}

	for _, id := range slices.Clone(order) {
		for _, dep := range nodes[id].Dependencies {
			// A package cargo listed without a node of its own.
			if _, ok := nodes[dep]; !ok && !slices.Contains(order, dep) {
				if err := g.AddVertex(string(dep)); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "add vertex %s", dep)
				}
				order = append(order, dep)
			}
			err := g.AddEdge(string(id), string(dep))
			if err != nil && !stderrors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add edge %s -> %s", id, dep)
			}
		}
	}

	return &Graph{md: m, g: g, nodes: nodes, order: order}, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Metadata returns the report the graph was built from.
func (g *Graph) Metadata() *cargo.Metadata { return g.md }

// IDs returns all node ids in the order cargo reported them.
func (g *Graph) IDs() []cargo.PackageID { return slices.Clone(g.order) }

// Node returns the resolve node with the given id.
func (g *Graph) Node(id cargo.PackageID) (*cargo.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Package returns the package behind a node.
func (g *Graph) Package(id cargo.PackageID) (*cargo.Package, bool) {
	return g.md.Package(id)
}

// Dependencies returns the direct dependencies of id, sorted.
func (g *Graph) Dependencies(id cargo.PackageID) []cargo.PackageID {
	adj, err := g.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	return sortedKeys(adj[string(id)])
}

// Dependents returns the packages depending directly on id, sorted.
func (g *Graph) Dependents(id cargo.PackageID) []cargo.PackageID {
	pred, err := g.g.PredecessorMap()
	if err != nil {
		return nil
	}
	return sortedKeys(pred[string(id)])
}

// Roots returns the nodes no other node depends on, sorted.
func (g *Graph) Roots() []cargo.PackageID {
	pred, err := g.g.PredecessorMap()
	if err != nil {
		return nil
	}
	var roots []cargo.PackageID
	for _, id := range g.order {
		if len(pred[string(id)]) == 0 {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// TopologicalOrder returns every node with dependencies ahead of their
// dependents. Ties are broken by id so the result is deterministic. It fails
// when the graph has a cycle.
func (g *Graph) TopologicalOrder() ([]cargo.PackageID, error) {
	sorted, err := graph.StableTopologicalSort(g.g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "resolve graph has a cycle")
	}
	out := make([]cargo.PackageID, len(sorted))
	for i, id := range sorted {
		out[len(sorted)-1-i] = cargo.PackageID(id)
	}
	return out, nil
}

// Edges returns every edge, sorted by source then target.
func (g *Graph) Edges() []Edge {
	adj, err := g.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	var edges []Edge
	for from, targets := range adj {
		for to := range targets {
			edges = append(edges, Edge{From: cargo.PackageID(from), To: cargo.PackageID(to)})
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return edges
}

// Label returns "name version" for id, or the raw id when the package is
// not in the report.
func (g *Graph) Label(id cargo.PackageID) string {
	if p, ok := g.md.Package(id); ok {
		return p.Name + " " + p.Version
	}
	return string(id)
}

func sortedKeys(m map[string]graph.Edge[string]) []cargo.PackageID {
	out := make([]cargo.PackageID, 0, len(m))
	for k := range m {
		out = append(out, cargo.PackageID(k))
	}
	slices.Sort(out)
	return out
}
