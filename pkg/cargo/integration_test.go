package cargo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cargometa/pkg/errors"
)

// newCrate writes a minimal library crate with one integration test.
func newCrate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Cargo.toml":        "[package]\nname = \"selfcheck\"\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[package.metadata.docs]\nall = true\n",
		"src/lib.rs":        "pub fn answer() -> u32 { 42 }\n",
		"tests/selftest.rs": "#[test]\nfn answer() { assert_eq!(selfcheck::answer(), 42); }\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "Cargo.toml")
}

func requireCargo(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping real cargo in short mode")
	}
	if _, err := exec.LookPath(DefaultCargo); err != nil {
		t.Skip("cargo not on PATH")
	}
	t.Setenv(CargoEnv, "")
}

func TestRealCargoNoDeps(t *testing.T) {
	requireCargo(t)
	manifest := newCrate(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	md, err := New().ManifestPath(manifest).OtherOptions("--offline").Exec(ctx)
	if err != nil {
		t.Fatalf("Exec() error: %v", err)
	}
	if md.Resolve != nil {
		t.Error("Resolve set without dependencies")
	}

	pkg, ok := md.PackageByName("selfcheck")
	if !ok {
		t.Fatal("selfcheck package missing")
	}
	if !md.IsWorkspaceMember(pkg.ID) {
		t.Error("selfcheck is not a workspace member")
	}
	if libs := pkg.TargetsOfKind("lib"); len(libs) != 1 {
		t.Errorf("lib targets = %v", libs)
	}
	tests := pkg.TargetsOfKind("test")
	if len(tests) != 1 || tests[0].Name != "selftest" || tests[0].CrateTypes[0] != "bin" {
		t.Errorf("test targets = %v", tests)
	}
	if pkg.Metadata == nil {
		t.Error("package.metadata table missing")
	}
}

func TestRealCargoResolve(t *testing.T) {
	requireCargo(t)
	manifest := newCrate(t)

	md, err := New().ManifestPath(manifest).IncludeDeps(true).OtherOptions("--offline").Exec(context.Background())
	if err != nil {
		t.Fatalf("Exec() error: %v", err)
	}
	root, ok := md.RootPackage()
	if !ok || root.Name != "selfcheck" {
		t.Errorf("RootPackage() = %v, %v", root, ok)
	}
}

func TestRealCargoMissingManifest(t *testing.T) {
	requireCargo(t)

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "Cargo.toml"))
	if !errors.Is(err, errors.ErrCodeToolReported) {
		t.Fatalf("Load() error = %v, want TOOL_REPORTED", err)
	}
	if errors.UserMessage(err) == "" {
		t.Error("cargo diagnostic is empty")
	}
}
