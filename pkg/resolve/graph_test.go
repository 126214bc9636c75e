package resolve

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cargometa/pkg/cargo"
	"github.com/matzehuels/cargometa/pkg/errors"
)

const (
	appID         = cargo.PackageID("path+file:///work/app#0.1.0")
	ccID          = cargo.PackageID("registry+https://github.com/rust-lang/crates.io-index#cc@1.0.90")
	serdeID       = cargo.PackageID("registry+https://github.com/rust-lang/crates.io-index#serde@1.0.200")
	serdeDeriveID = cargo.PackageID("registry+https://github.com/rust-lang/crates.io-index#serde_derive@1.0.200")
	tempfileID    = cargo.PackageID("registry+https://github.com/rust-lang/crates.io-index#tempfile@3.10.1")
)

func loadGraph(t *testing.T) *Graph {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "cargo", "testdata", "deps.json"))
	if err != nil {
		t.Fatal(err)
	}
	md, err := cargo.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	g, err := Build(md)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}

func TestBuildRequiresResolve(t *testing.T) {
	_, err := Build(&cargo.Metadata{})
	if err != ErrNoResolve {
		t.Fatalf("Build() error = %v, want ErrNoResolve", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
	if _, err := Build(nil); err != ErrNoResolve {
		t.Errorf("Build(nil) error = %v", err)
	}
}

func TestGraphNeighbours(t *testing.T) {
	g := loadGraph(t)

	if g.Len() != 5 {
		t.Errorf("Len() = %d, want 5", g.Len())
	}
	if diff := cmp.Diff([]cargo.PackageID{ccID, serdeID, tempfileID}, g.Dependencies(appID)); diff != "" {
		t.Errorf("Dependencies(app) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]cargo.PackageID{serdeID}, g.Dependents(serdeDeriveID)); diff != "" {
		t.Errorf("Dependents(serde_derive) mismatch (-want +got):\n%s", diff)
	}
	if got := g.Dependents(appID); len(got) != 0 {
		t.Errorf("Dependents(app) = %v, want none", got)
	}
	if diff := cmp.Diff([]cargo.PackageID{appID}, g.Roots()); diff != "" {
		t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
	}

	n, ok := g.Node(serdeID)
	if !ok || !slices.Contains(n.Features, "derive") {
		t.Errorf("Node(serde) = %+v, %v", n, ok)
	}
}

func TestGraphEdges(t *testing.T) {
	g := loadGraph(t)
	want := []Edge{
		{appID, ccID},
		{appID, serdeID},
		{appID, tempfileID},
		{serdeID, serdeDeriveID},
	}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := loadGraph(t)

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder() error: %v", err)
	}
	if len(order) != g.Len() {
		t.Fatalf("got %d nodes, want %d", len(order), g.Len())
	}
	pos := make(map[cargo.PackageID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges() {
		if pos[e.To] > pos[e.From] {
			t.Errorf("%s ordered after its dependent %s", e.To, e.From)
		}
	}
	if order[len(order)-1] != appID {
		t.Errorf("last = %s, want app", order[len(order)-1])
	}
}

func TestTopologicalOrderCycle(t *testing.T) {
	md := &cargo.Metadata{
		Packages: []cargo.Package{
			{Name: "a", Version: "1.0.0", ID: "a"},
			{Name: "b", Version: "1.0.0", ID: "b"},
		},
		Resolve: &cargo.Resolve{Nodes: []cargo.Node{
			{ID: "a", Dependencies: []cargo.PackageID{"b"}},
			{ID: "b", Dependencies: []cargo.PackageID{"a", "a"}},
		}},
	}
	g, err := Build(md)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(g.Roots()) != 0 {
		t.Errorf("Roots() = %v, want none", g.Roots())
	}
	if _, err := g.TopologicalOrder(); err == nil {
		t.Error("TopologicalOrder() succeeded on a cycle")
	}
}

func TestLabel(t *testing.T) {
	g := loadGraph(t)
	if got := g.Label(serdeID); got != "serde 1.0.200" {
		t.Errorf("Label(serde) = %q", got)
	}
	if got := g.Label("unknown"); got != "unknown" {
		t.Errorf("Label(unknown) = %q", got)
	}
}
