package cargo

import (
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/matzehuels/cargometa/pkg/errors"
)

//go:embed schema.cue
var schemaSource []byte

// Parse decodes the stdout of `cargo metadata --format-version 1`.
//
// The input must be UTF-8 (ENCODING error otherwise). It is then checked
// against an open schema that only constrains the fields this package reads,
// so unknown fields are ignored while missing required fields are reported.
// Finally the graph invariants are checked with [Metadata.Validate]. Any
// failure after the UTF-8 check is a STRUCTURAL_DECODE error.
func Parse(data []byte) (*Metadata, error) {
	if err := checkUTF8(data); err != nil {
		return nil, err
	}
	if err := validateSchema(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStructuralDecode, err, "cargo metadata does not match schema")
	}

	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStructuralDecode, err, "decode cargo metadata")
	}
	if md.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeStructuralDecode,
			"unsupported metadata format version %d (want %d)", md.Version, FormatVersion)
	}
	md.fillDefaults()

	if err := md.Validate(); err != nil {
		return nil, err
	}
	return &md, nil
}

// validateSchema unifies the document with #Metadata. A fresh CUE context is
// used per call since contexts are not safe for concurrent use.
func validateSchema(data []byte) error {
	expr, err := cuejson.Extract("stdout", data)
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return fmt.Errorf("internal error: compile schema: %w", schema.Err())
	}
	root := schema.LookupPath(cue.ParsePath("#Metadata"))
	if root.Err() != nil {
		return fmt.Errorf("internal error: schema definition #Metadata not found: %w", root.Err())
	}

	doc := ctx.BuildExpr(expr)
	if doc.Err() != nil {
		return fmt.Errorf("invalid JSON: %w", doc.Err())
	}
	if err := root.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

// formatSchemaError flattens CUE errors into "path: message" lines.
func formatSchemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if path := formatPath(cueerrors.Path(e)); path != "" && !strings.HasPrefix(msg, path) {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	return stderrors.New(strings.Join(lines, "; "))
}

// formatPath turns ["packages", "0", "name"] into "packages[0].name".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// fillDefaults replaces absent collections with empty ones, so a decoded
// report marshals back to a document Parse accepts.
func (m *Metadata) fillDefaults() {
	m.WorkspaceMembers = orEmpty(m.WorkspaceMembers)
	for i := range m.Packages {
		p := &m.Packages[i]
		p.Authors = orEmpty(p.Authors)
		for j := range p.Targets {
			p.Targets[j].CrateTypes = orEmpty(p.Targets[j].CrateTypes)
		}
		for j := range p.Dependencies {
			p.Dependencies[j].Features = orEmpty(p.Dependencies[j].Features)
		}
	}
	if m.Resolve != nil {
		for i := range m.Resolve.Nodes {
			m.Resolve.Nodes[i].Features = orEmpty(m.Resolve.Nodes[i].Features)
		}
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Validate checks the cross-references of the graph: package ids are
// unique, workspace members and resolve nodes name known packages, and every
// node dependency names a node or package. All violations are reported
// together in a STRUCTURAL_DECODE error.
func (m *Metadata) Validate() error {
	var problems []error

	ids := make(map[PackageID]bool, len(m.Packages))
	for _, p := range m.Packages {
		if ids[p.ID] {
			problems = append(problems, fmt.Errorf("duplicate package id %q", p.ID))
		}
		ids[p.ID] = true
	}

	for _, id := range m.WorkspaceMembers {
		if !ids[id] {
			problems = append(problems, fmt.Errorf("workspace member %q is not a package", id))
		}
	}

	if m.Resolve != nil {
		nodes := make(map[PackageID]bool, len(m.Resolve.Nodes))
		for _, n := range m.Resolve.Nodes {
			nodes[n.ID] = true
			if !ids[n.ID] {
				problems = append(problems, fmt.Errorf("resolve node %q is not a package", n.ID))
			}
		}
		for _, n := range m.Resolve.Nodes {
			for _, dep := range n.Dependencies {
				if !nodes[dep] && !ids[dep] {
					problems = append(problems, fmt.Errorf("resolve node %q depends on unknown id %q", n.ID, dep))
				}
			}
		}
		if r := m.Resolve.Root; r != nil && !ids[*r] {
			problems = append(problems, fmt.Errorf("resolve root %q is not a package", *r))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrCodeStructuralDecode, stderrors.Join(problems...), "inconsistent cargo metadata")
}
