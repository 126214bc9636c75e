package cargo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FormatVersion is the `cargo metadata --format-version` this package decodes.
const FormatVersion = 1

// PackageID is an opaque identifier for a package. It is only meaningful as a
// key into [Metadata.Packages], [Metadata.WorkspaceMembers] and
// [Resolve.Nodes].
type PackageID string

func (id PackageID) String() string { return string(id) }

// Metadata is the root of the graph reported by `cargo metadata`.
//
// A Metadata value is fully built by [Parse] and never modified afterwards.
type Metadata struct {
	// Packages lists every package in the report, in the order cargo emitted them.
	Packages []Package `json:"packages"`
	// WorkspaceMembers lists the ids of the workspace's member packages.
	// It is empty, never nil, after decoding.
	WorkspaceMembers []PackageID `json:"workspace_members"`
	// Resolve is the dependency graph. It is nil unless dependency
	// resolution was requested.
	Resolve *Resolve `json:"resolve"`
	// TargetDirectory is the build directory of the workspace.
	TargetDirectory string `json:"target_directory,omitempty"`
	// WorkspaceRoot is the directory holding the workspace manifest.
	WorkspaceRoot string `json:"workspace_root,omitempty"`
	// Version is the output format version; always FormatVersion after decoding.
	Version int `json:"version"`
}

// Resolve is the dependency closure computed by cargo.
type Resolve struct {
	Nodes []Node `json:"nodes"`
	// Root is the package the command was run against, nil for virtual workspaces.
	Root *PackageID `json:"root,omitempty"`
}

// Node is a package in the resolve graph together with the ids of its
// resolved dependencies.
type Node struct {
	ID           PackageID   `json:"id"`
	Dependencies []PackageID `json:"dependencies"`
	// Features are the features enabled on this package after resolution.
	Features []string `json:"features"`
}

// Package is a crate: a unit of distributable code with a manifest.
type Package struct {
	Name    string    `json:"name"`
	Version string    `json:"version"`
	ID      PackageID `json:"id"`
	// Source is nil for local path packages.
	Source       *string      `json:"source"`
	Dependencies []Dependency `json:"dependencies"`
	Targets      []Target     `json:"targets"`
	// Features maps a feature name to the features it enables.
	Features map[string][]string `json:"features"`
	// ManifestPath is the absolute path to the package's Cargo.toml.
	ManifestPath string `json:"manifest_path"`

	Authors     []string `json:"authors"`
	Description *string  `json:"description,omitempty"`
	License     *string  `json:"license,omitempty"`
	Repository  *string  `json:"repository,omitempty"`
	Edition     string   `json:"edition,omitempty"`
	// Metadata holds the free-form [package.metadata] table, nil when absent.
	Metadata any `json:"metadata,omitempty"`
}

// Target is a single compilable artifact of a package.
type Target struct {
	Name string `json:"name"`
	// Kind is one or more of "lib", "bin", "example", "test", "bench",
	// "custom-build", "proc-macro", ...
	Kind []string `json:"kind"`
	// CrateTypes mirrors Kind except for library examples, where it holds
	// artifact kinds such as "rlib" or "dylib". Empty, never nil, after decoding.
	CrateTypes []string `json:"crate_types"`
	// SrcPath is the path to the target's entry source file.
	SrcPath string `json:"src_path"`
}

// Is reports whether the target has the given kind.
func (t Target) Is(kind string) bool {
	for _, k := range t.Kind {
		if k == kind {
			return true
		}
	}
	return false
}

func (t Target) IsLib() bool  { return t.Is("lib") }
func (t Target) IsBin() bool  { return t.Is("bin") }
func (t Target) IsTest() bool { return t.Is("test") }

// Dependency is a dependency as declared in a package's manifest.
type Dependency struct {
	Name string `json:"name"`
	// Req is the version requirement, e.g. "^1.0".
	Req  VersionReq     `json:"req"`
	Kind DependencyKind `json:"kind"`

	Source   *string `json:"source,omitempty"`
	Optional bool    `json:"optional"`
	// UsesDefaultFeatures is true unless the manifest sets
	// default-features = false. It defaults to true when absent.
	UsesDefaultFeatures bool     `json:"uses_default_features"`
	Features            []string `json:"features"`
	// Target is the platform the dependency is restricted to, e.g.
	// `cfg(windows)`. Nil when it applies everywhere.
	Target   *string `json:"target,omitempty"`
	Rename   *string `json:"rename,omitempty"`
	Registry *string `json:"registry,omitempty"`
	Path     *string `json:"path,omitempty"`
}

func (d *Dependency) UnmarshalJSON(data []byte) error {
	type plain Dependency
	p := plain{UsesDefaultFeatures: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Dependency(p)
	return nil
}

// DependencyKind is the section of the manifest a dependency is declared in.
type DependencyKind int

const (
	// Normal is a [dependencies] entry.
	Normal DependencyKind = iota
	// Development is a [dev-dependencies] entry.
	Development
	// Build is a [build-dependencies] entry.
	Build
	// Unknown is any kind this package does not recognise.
	Unknown
)

var kindNames = map[DependencyKind]string{
	Normal:      "normal",
	Development: "dev",
	Build:       "build",
	Unknown:     "unknown",
}

func (k DependencyKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DependencyKind(%d)", int(k))
}

// MarshalJSON writes Normal as null, matching cargo's output.
func (k DependencyKind) MarshalJSON() ([]byte, error) {
	if k == Normal {
		return []byte("null"), nil
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts null, "normal", "dev" and "build". Any other string
// decodes to Unknown.
func (k *DependencyKind) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*k = Normal
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dependency kind: %w", err)
	}
	switch s {
	case "normal":
		*k = Normal
	case "dev":
		*k = Development
	case "build":
		*k = Build
	default:
		*k = Unknown
	}
	return nil
}
