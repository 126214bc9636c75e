package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargometa/pkg/cargo"
	"github.com/matzehuels/cargometa/pkg/errors"
)

// depsCommand creates the deps command, which lists declared dependencies.
func (c *CLI) depsCommand() *cobra.Command {
	var (
		check string
		kind  string
	)

	cmd := &cobra.Command{
		Use:   "deps [package]",
		Short: "List the declared dependencies of workspace members",
		Long: `List the declared dependencies of workspace members.

With --check VERSION each requirement is tested against that version, for
example to see which members accept a new release:

  cargometa deps --check 2.0.0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			switch kind {
			case "", "normal", "dev", "build":
			default:
				return errors.New(errors.ErrCodeInvalidInput, "invalid kind %q (must be 'normal', 'dev' or 'build')", kind)
			}
			opts := depsOpts{kind: kind}
			if check != "" {
				v, err := semver.StrictNewVersion(check)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid version %q", check)
				}
				opts.check = v
			}
			return c.runDeps(cmd.Context(), cmd.OutOrStdout(), name, opts)
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "test every requirement against this version")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only show dependencies of this kind: normal, dev, build")

	return cmd
}

type depsOpts struct {
	kind  string
	check *semver.Version
}

func (c *CLI) runDeps(ctx context.Context, w io.Writer, name string, opts depsOpts) error {
	md, err := c.loadMetadata(ctx, false)
	if err != nil {
		return err
	}
	pkgs, err := selectPackages(md, name)
	if err != nil {
		return err
	}

	headers := []string{"Package", "Dependency", "Requirement", "Kind", "Platform", "Optional"}
	if opts.check != nil {
		headers = append(headers, opts.check.Original())
	}
	t := newTable(headers...)

	count, matched := 0, 0
	for _, p := range pkgs {
		for _, d := range p.Dependencies {
			if opts.kind != "" && d.Kind.String() != opts.kind {
				continue
			}
			row := []string{p.Name, depName(d), d.Req.String(), d.Kind.String(), dash(deref(d.Target)), yesNo(d.Optional)}
			if opts.check != nil {
				ok := d.Req.MatchesVersion(opts.check)
				if ok {
					matched++
				}
				row = append(row, checkMark(ok))
			}
			t.Row(row...)
			count++
		}
	}

	if count == 0 {
		printWarning(w, "no dependencies found")
		return nil
	}
	fmt.Fprintln(w, t.Render())
	if opts.check != nil {
		printDetail(w, "%d of %d requirements accept %s", matched, count, opts.check.Original())
	}
	return nil
}

// depName shows a renamed dependency as "rename (name)".
func depName(d cargo.Dependency) string {
	if d.Rename != nil && *d.Rename != d.Name {
		return fmt.Sprintf("%s (%s)", *d.Rename, d.Name)
	}
	return d.Name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func checkMark(ok bool) string {
	if ok {
		return StyleSuccess.Render(iconSuccess)
	}
	return StyleError.Render(iconError)
}
