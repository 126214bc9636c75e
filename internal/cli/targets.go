package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargometa/pkg/cargo"
	"github.com/matzehuels/cargometa/pkg/errors"
)

// targetsCommand creates the targets command, which lists the build targets
// of workspace members.
func (c *CLI) targetsCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "targets [package]",
		Short: "List the targets of workspace members",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return c.runTargets(cmd.Context(), cmd.OutOrStdout(), name, kind)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only show targets of this kind (lib, bin, test, ...)")

	return cmd
}

func (c *CLI) runTargets(ctx context.Context, w io.Writer, name, kind string) error {
	md, err := c.loadMetadata(ctx, false)
	if err != nil {
		return err
	}
	pkgs, err := selectPackages(md, name)
	if err != nil {
		return err
	}

	root := md.WorkspaceRoot
	t := newTable("Package", "Target", "Kind", "Crate types", "Source")
	count := 0
	for _, p := range pkgs {
		for _, tgt := range p.Targets {
			if kind != "" && !tgt.Is(kind) {
				continue
			}
			t.Row(p.Name, tgt.Name, strings.Join(tgt.Kind, ", "), dash(strings.Join(tgt.CrateTypes, ", ")), relPath(root, tgt.SrcPath))
			count++
		}
	}

	if count == 0 {
		printWarning(w, "no targets found")
		return nil
	}
	fmt.Fprintln(w, t.Render())
	printDetail(w, "%d targets in %d packages", count, len(pkgs))
	return nil
}

// selectPackages returns the named package, or every workspace member when
// name is empty.
func selectPackages(md *cargo.Metadata, name string) ([]*cargo.Package, error) {
	if name == "" {
		return md.WorkspacePackages(), nil
	}
	if err := errors.ValidateCrateName(name); err != nil {
		return nil, err
	}
	p, ok := md.PackageByName(name)
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %q not found", name)
	}
	return []*cargo.Package{p}, nil
}

// relPath shortens path relative to root when it lies beneath it.
func relPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
