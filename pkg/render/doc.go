// Package render converts rendered dependency graphs between output formats.
//
// Diagrams are produced as SVG by the [nodelink] subpackage. [ToPDF] and
// [ToPNG] convert that SVG with the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// Both return an UNSUPPORTED error when rsvg-convert is not installed.
package render
