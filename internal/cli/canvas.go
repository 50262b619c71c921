package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// cellStyle indexes canvasStyles.
type cellStyle int

const (
	cellPlain cellStyle = iota
	cellBorder
	cellFocus
	cellLocked
	cellDragged
	cellDropZone
	cellTitle
)

var canvasStyles = map[cellStyle]lipgloss.Style{
	cellPlain:    lipgloss.NewStyle(),
	cellBorder:   lipgloss.NewStyle().Foreground(colorDim),
	cellFocus:    lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	cellLocked:   lipgloss.NewStyle().Foreground(colorRed),
	cellDragged:  lipgloss.NewStyle().Foreground(colorGray).Faint(true),
	cellDropZone: lipgloss.NewStyle().Foreground(colorYellow),
	cellTitle:    lipgloss.NewStyle().Foreground(colorWhite),
}

type cell struct {
	r     rune
	style cellStyle
}

// canvas is a grid of styled terminal cells.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s cellStyle) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: s}
}

// text writes s starting at (x, y), stopping before maxX.
func (c *canvas) text(x, y, maxX int, s string, style cellStyle) {
	for _, r := range s {
		if x >= maxX {
			return
		}
		c.set(x, y, r, style)
		x++
	}
}

// cellBounds converts a layout rectangle to half-open cell bounds.
func cellBounds(r mosaic.Rect) (x0, y0, x1, y1 int) {
	return int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X + r.Width)), int(math.Round(r.Y + r.Height))
}

// box draws a rounded border around r with title on the top edge.
func (c *canvas) box(r mosaic.Rect, title string, border, titleStyle cellStyle) {
	x0, y0, x1, y1 := cellBounds(r)
	if x1-x0 < 2 || y1-y0 < 2 {
		c.fill(r, '▪', border)
		return
	}
	right, bottom := x1-1, y1-1
	for x := x0 + 1; x < right; x++ {
		c.set(x, y0, '─', border)
		c.set(x, bottom, '─', border)
	}
	for y := y0 + 1; y < bottom; y++ {
		c.set(x0, y, '│', border)
		c.set(right, y, '│', border)
	}
	c.set(x0, y0, '╭', border)
	c.set(right, y0, '╮', border)
	c.set(x0, bottom, '╰', border)
	c.set(right, bottom, '╯', border)

	if title != "" && right-x0 > 3 {
		c.text(x0+2, y0, right-1, " "+title+" ", titleStyle)
	}
}

// fill paints every cell of r with ch.
func (c *canvas) fill(r mosaic.Rect, ch rune, style cellStyle) {
	x0, y0, x1, y1 := cellBounds(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y, ch, style)
		}
	}
}

// String renders the canvas, batching runs of equally styled cells.
func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		style := cellPlain
		flush := func() {
			if len(run) > 0 {
				b.WriteString(canvasStyles[style].Render(string(run)))
				run = run[:0]
			}
		}
		for _, cl := range row {
			if cl.style != style {
				flush()
				style = cl.style
			}
			run = append(run, cl.r)
		}
		flush()
	}
	return b.String()
}
