// Package render draws layouts for debugging and documentation.
//
// [ToDOT] turns a layout's split tree into a Graphviz DOT digraph: splits are
// ellipses labelled with their direction and percentage, tiles are boxes.
// [RenderSVG] runs Graphviz (via go-graphviz, no external binary) to turn the
// DOT source into an SVG document.
//
//	dot := render.ToDOT(layout, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
package render
