// Package nodelink renders resolve graphs as node-link diagrams.
//
// # Usage
//
// Convert a [resolve.Graph] to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Options
//
//   - Detailed: labels carry the package source and resolved features.
//   - Highlight: workspace members are filled and drawn with a heavier border.
//
// The generated DOT uses a top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Edges point from a package to its dependencies.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
