package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargometa/pkg/cargo"
)

// browseCommand creates the browse command, an interactive picker over the
// workspace members.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a workspace member interactively and show its details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, in io.Reader, w io.Writer) error {
	md, err := c.loadMetadata(ctx, false)
	if err != nil {
		return err
	}

	pkgs := md.WorkspacePackages()
	if len(pkgs) == 0 {
		printWarning(w, "workspace has no members")
		return nil
	}

	p := tea.NewProgram(NewPackageListModel(pkgs), tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(w))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(PackageListModel)
	if !ok || fm.Selected == nil {
		printDetail(w, "No selection made")
		return nil
	}
	printPackage(w, fm.Selected)
	return nil
}

// printPackage prints the details of a package.
func printPackage(w io.Writer, p *cargo.Package) {
	printKeyValue(w, "Name", StyleHighlight.Render(p.Name))
	printKeyValue(w, "Version", p.Version)
	printKeyValue(w, "ID", string(p.ID))
	printKeyValue(w, "Manifest", p.ManifestPath)
	printKeyValue(w, "Edition", dash(p.Edition))
	printKeyValue(w, "License", dash(deref(p.License)))
	if p.Description != nil {
		printKeyValue(w, "Description", *p.Description)
	}
	if len(p.Authors) > 0 {
		printKeyValue(w, "Authors", strings.Join(p.Authors, ", "))
	}
	printKeyValue(w, "Targets", targetKinds(p))
	printKeyValue(w, "Dependencies", dependencySummary(p))
	printKeyValue(w, "Features", dash(strings.Join(slices.Sorted(maps.Keys(p.Features)), ", ")))
}

// dependencySummary counts dependencies per kind, e.g. "3 normal, 1 dev".
func dependencySummary(p *cargo.Package) string {
	counts := make(map[cargo.DependencyKind]int)
	for _, d := range p.Dependencies {
		counts[d.Kind]++
	}
	var parts []string
	for _, k := range []cargo.DependencyKind{cargo.Normal, cargo.Development, cargo.Build, cargo.Unknown} {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return dash(strings.Join(parts, ", "))
}
