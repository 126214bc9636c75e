package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/cargometa/pkg/cargo"
	"github.com/matzehuels/cargometa/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	writeFile(t, path, `
cargo = "/opt/rust/bin/cargo"
manifest_path = "crates/core/Cargo.toml"
features = ["serde", "tokio/rt"]
cargo_args = ["--offline"]
colour = "always"

[graph]
format = "svg"
highlight = false
`)

	cfg, unknown, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig() error: %v", err)
	}
	if cfg.Cargo != "/opt/rust/bin/cargo" || cfg.ManifestPath != "crates/core/Cargo.toml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !slices.Equal(cfg.Features, []string{"serde", "tokio/rt"}) {
		t.Errorf("Features = %v", cfg.Features)
	}
	if !slices.Equal(cfg.CargoArgs, []string{"--offline"}) {
		t.Errorf("CargoArgs = %v", cfg.CargoArgs)
	}
	if cfg.Graph.Format != "svg" || cfg.Graph.Highlight == nil || *cfg.Graph.Highlight {
		t.Errorf("Graph = %+v", cfg.Graph)
	}
	if !slices.Equal(unknown, []string{"colour"}) {
		t.Errorf("unknown keys = %v, want [colour]", unknown)
	}
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	writeFile(t, path, "features = \"not a list\n")

	if _, _, err := readConfig(path); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("readConfig() error = %v, want INVALID_FORMAT", err)
	}
}

func TestFindConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	if got, err := findConfig("", dir); err != nil || got != "" {
		t.Errorf("findConfig() with no file = %q, %v", got, err)
	}

	local := filepath.Join(dir, configFileName)
	writeFile(t, local, "")
	if got, _ := findConfig("", dir); got != local {
		t.Errorf("findConfig() = %q, want %q", got, local)
	}

	if _, err := findConfig(filepath.Join(dir, "missing.toml"), dir); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("findConfig(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestApplyFlags(t *testing.T) {
	base := &Config{
		Cargo:       "/from/config",
		Features:    []string{"serde"},
		AllFeatures: false,
	}
	changed := func(names ...string) func(string) bool {
		return func(n string) bool { return slices.Contains(names, n) }
	}

	got := applyFlags(base, globalFlags{cargo: "/from/flag"}, changed())
	if got.Cargo != "/from/config" {
		t.Errorf("unchanged flag overrode config: %q", got.Cargo)
	}

	got = applyFlags(base, globalFlags{cargo: "/from/flag"}, changed("cargo"))
	if got.Cargo != "/from/flag" {
		t.Errorf("Cargo = %q, want /from/flag", got.Cargo)
	}
	if base.Cargo != "/from/config" {
		t.Error("applyFlags modified its input")
	}

	got = applyFlags(base, globalFlags{allFeatures: true}, changed("all-features"))
	if !got.AllFeatures || got.Features != nil {
		t.Errorf("all-features did not replace feature list: %+v", got)
	}
}

func TestFeatureSelection(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		want     string
		wantCode errors.Code
	}{
		{name: "default", cfg: Config{}, want: cargo.DefaultFeatures().String()},
		{name: "all", cfg: Config{AllFeatures: true}, want: "all"},
		{name: "no default", cfg: Config{NoDefaultFeatures: true}, want: "no-default"},
		{name: "some", cfg: Config{Features: []string{"a", "b"}}, want: "a,b"},
		{name: "conflict", cfg: Config{AllFeatures: true, NoDefaultFeatures: true}, wantCode: errors.ErrCodeInvalidInput},
		{name: "invalid feature", cfg: Config{Features: []string{"bad feature"}}, wantCode: errors.ErrCodeInvalidFeature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := tt.cfg.featureSelection()
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("featureSelection() error: %v", err)
			}
			if sel.String() != tt.want {
				t.Errorf("selection = %q, want %q", sel, tt.want)
			}
		})
	}
}

func TestResolvePaths(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "home", "me", ".config", "cargometa")
	abs := filepath.Join(string(filepath.Separator), "work", "Cargo.toml")

	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "relative paths",
			in:   Config{ManifestPath: "app/Cargo.toml", Dir: "app", Cargo: filepath.Join("bin", "cargo")},
			want: Config{ManifestPath: filepath.Join(base, "app", "Cargo.toml"), Dir: filepath.Join(base, "app"), Cargo: filepath.Join(base, "bin", "cargo")},
		},
		{
			name: "absolute and empty are kept",
			in:   Config{ManifestPath: abs},
			want: Config{ManifestPath: abs},
		},
		{
			name: "bare executable name stays on PATH",
			in:   Config{Cargo: "cargo-nightly"},
			want: Config{Cargo: "cargo-nightly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.resolvePaths(base)
			if cfg.ManifestPath != tt.want.ManifestPath || cfg.Dir != tt.want.Dir || cfg.Cargo != tt.want.Cargo {
				t.Errorf("resolvePaths() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestConfigPathsRelativeToFile(t *testing.T) {
	exe, argsFile := fakeCargo(t)
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "shared.toml")
	writeFile(t, cfgPath, "cargo = "+strconv.Quote(exe)+"\nmanifest_path = \"crates/core/Cargo.toml\"\n")

	if _, err := execute(t, "metadata", "--config", cfgPath); err != nil {
		t.Fatalf("metadata error: %v", err)
	}
	want := "metadata --no-deps --format-version 1 --manifest-path " + filepath.Join(cfgDir, "crates", "core", "Cargo.toml")
	if got := readArgs(t, argsFile); got != want {
		t.Errorf("cargo args = %q, want %q", got, want)
	}
}

func TestFlagPathsStayRelative(t *testing.T) {
	exe, argsFile := fakeCargo(t)

	if _, err := execute(t, "metadata", "--cargo", exe, "--manifest-path", "crates/core/Cargo.toml"); err != nil {
		t.Fatalf("metadata error: %v", err)
	}
	want := "metadata --no-deps --format-version 1 --manifest-path crates/core/Cargo.toml"
	if got := readArgs(t, argsFile); got != want {
		t.Errorf("cargo args = %q, want %q", got, want)
	}
}
