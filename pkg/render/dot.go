package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// Options configures DOT output.
type Options struct {
	// Detailed adds node IDs and lock state to labels.
	// When false, tiles show their tile ID and splits their direction and share.
	Detailed bool
}

// ToDOT converts the split tree of l to Graphviz DOT format. Edges run from a
// split to its first and second child, labelled "1" and "2". Locked nodes are
// drawn with a bold red outline. An empty layout yields a graph with no nodes.
func ToDOT(l *mosaic.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mosaic {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	l.Walk(func(n mosaic.Node, _ int) {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		if first, second, ok := n.Children(); ok {
			edges = append(edges,
				fmt.Sprintf("  %q -> %q [label=\"1\"];\n", n.ID, first),
				fmt.Sprintf("  %q -> %q [label=\"2\"];\n", n.ID, second))
		}
	})

	if len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			buf.WriteString(e)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n mosaic.Node, detailed bool) string {
	var label string
	if n.IsTile() {
		label = string(n.TileID)
	} else {
		label = fmt.Sprintf("%s %g%%", n.Direction, n.SplitPercentage)
	}
	if !detailed {
		return label
	}
	parts := []string{label, string(n.ID)}
	if n.IsSplit() {
		parts = append(parts, fmt.Sprintf("[%g, %g]", n.MinPercentage, n.MaxPercentage))
	}
	if n.Locked {
		parts = append(parts, "locked")
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n mosaic.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsTile() {
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=white")
	} else {
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightgrey")
	}
	if n.Locked {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the document scales from a
// zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
