package cli

import (
	"context"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargometa/pkg/errors"
	"github.com/matzehuels/cargometa/pkg/render/nodelink"
	"github.com/matzehuels/cargometa/pkg/resolve"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// validFormats lists the graph output formats.
var validFormats = []string{formatDOT, formatSVG, formatPDF, formatPNG}

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format    string  // output format: dot, svg, pdf, png
	output    string  // output file; stdout when empty
	detailed  bool    // add sources and features to node labels
	highlight bool    // fill workspace members
	scale     float64 // PNG scale factor
}

// graphCommand creates the graph command for rendering the resolve graph.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{highlight: true, scale: 2.0}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the resolved dependency graph",
		Long: `Render the resolved dependency graph.

Runs cargo metadata with dependency resolution and renders the resolve graph
as a node-link diagram. DOT output needs nothing beyond cargo; SVG is rendered
in-process with Graphviz; PDF and PNG additionally need rsvg-convert.

Defaults for --format, --detailed and --highlight may be set in the [graph]
section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyGraphConfig(cmd, &opts)
			if !slices.Contains(validFormats, opts.format) {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'dot', 'svg', 'pdf' or 'png')", opts.format)
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "output format: dot, svg, pdf, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show package sources and resolved features")
	cmd.Flags().BoolVar(&opts.highlight, "highlight", opts.highlight, "highlight workspace members")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// applyGraphConfig fills options the user did not set on the command line
// from the [graph] config section.
func (c *CLI) applyGraphConfig(cmd *cobra.Command, opts *graphOpts) {
	if c.config == nil {
		return
	}
	gc := c.config.Graph
	if gc.Format != "" && !cmd.Flags().Changed("format") {
		opts.format = gc.Format
	}
	if gc.Detailed && !cmd.Flags().Changed("detailed") {
		opts.detailed = true
	}
	if gc.Highlight != nil && !cmd.Flags().Changed("highlight") {
		opts.highlight = *gc.Highlight
	}
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, opts graphOpts) error {
	logger := loggerFromContext(ctx)

	md, err := c.loadMetadata(ctx, true)
	if err != nil {
		return err
	}
	g, err := resolve.Build(md)
	if err != nil {
		return err
	}
	logger.Infof("Resolved graph: %d nodes, %d edges", g.Len(), len(g.Edges()))

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed, Highlight: opts.highlight})

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		logger.Info("Rendering node-link SVG")
		data, err = nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		logger.Info("Rendering node-link PDF")
		data, err = nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		logger.Info("Rendering node-link PNG")
		data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
	}
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	if err := writeOutput(opts.output, w, data); err != nil {
		return err
	}
	if toFile(opts.output) {
		printSuccess(w, "Rendered %d packages", g.Len())
		printFile(w, opts.output)
	}
	return nil
}
