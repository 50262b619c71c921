package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/workspace"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// resizeStep is the percentage change per grow/shrink key press.
const resizeStep = 5.0

// footerLines is the number of rows below the layout area.
const footerLines = 2

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit the layout interactively",
		Long: `Open the layout in an interactive terminal view.

Drag a tile by its title onto the edge of another tile to move it there.
Drag the border between two tiles to resize their split. Every change is
saved as it happens. Press ? for key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				p := tea.NewProgram(
					newTUIModel(cmd.Context(), ws),
					tea.WithAltScreen(),
					tea.WithMouseCellMotion(),
					tea.WithContext(cmd.Context()),
				)
				_, err := p.Run()
				return err
			})
		},
	}
}

// =============================================================================
// Key Bindings
// =============================================================================

type tuiKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	SplitH key.Binding
	SplitV key.Binding
	Close  key.Binding
	Grow   key.Binding
	Shrink key.Binding
	Lock   key.Binding
	New    key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultTUIKeys() tuiKeyMap {
	return tuiKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("⇧tab", "prev")),
		SplitH: key.NewBinding(key.WithKeys("|", "s"), key.WithHelp("|", "split right")),
		SplitV: key.NewBinding(key.WithKeys("_", "S"), key.WithHelp("_", "split below")),
		Close:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),
		Grow:   key.NewBinding(key.WithKeys("]", "+"), key.WithHelp("]", "grow")),
		Shrink: key.NewBinding(key.WithKeys("[", "-"), key.WithHelp("[", "shrink")),
		Lock:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "lock")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new tile")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k tuiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.SplitH, k.SplitV, k.Close, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k tuiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.New},
		{k.SplitH, k.SplitV, k.Close},
		{k.Grow, k.Shrink, k.Lock},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

// tuiModel is the bubbletea model for interactive layout editing. It keeps
// a copy of the workspace layout for drawing and previewing divider drags;
// every committed change goes through the workspace.
type tuiModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	layout *mosaic.Layout

	keys tuiKeyMap
	help help.Model

	focus    mosaic.TileID
	drag     *mosaic.DragState
	resizing *mosaic.SplitRect

	width, height int
	status        string
	statusErr     bool
}

func newTUIModel(ctx context.Context, ws *workspace.Workspace) tuiModel {
	m := tuiModel{
		ctx:    ctx,
		ws:     ws,
		keys:   defaultTUIKeys(),
		help:   help.New(),
		drag:   mosaic.NewDragState(),
		width:  80,
		height: 24,
	}
	m.reload()
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

// area is the screen region the layout is drawn in.
func (m tuiModel) area() mosaic.Rect {
	return mosaic.Rect{Width: float64(m.width), Height: float64(max(m.height-footerLines, 0))}
}

// reload refreshes the local copy and keeps focus on an existing tile.
func (m *tuiModel) reload() {
	m.layout = m.ws.Layout()
	if _, ok := m.layout.FindTile(m.focus); ok {
		return
	}
	m.focus = ""
	if tiles := m.layout.AllTiles(); len(tiles) > 0 {
		m.focus = tiles[0]
	}
}

// apply reports the outcome of a workspace call and reloads.
func (m *tuiModel) apply(err error, success string) {
	if err != nil {
		m.status, m.statusErr = err.Error(), true
	} else {
		m.status, m.statusErr = success, false
	}
	m.reload()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		m.cycleFocus(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycleFocus(-1)
	case key.Matches(msg, m.keys.New):
		if m.layout.IsEmpty() {
			m.apply(m.ws.Init(m.ctx, ""), "Created tile")
		}
	case key.Matches(msg, m.keys.SplitH):
		m.split(mosaic.Horizontal)
	case key.Matches(msg, m.keys.SplitV):
		m.split(mosaic.Vertical)
	case key.Matches(msg, m.keys.Close):
		if m.focus != "" {
			m.apply(m.ws.Close(m.ctx, m.focus), "Closed "+string(m.focus))
		}
	case key.Matches(msg, m.keys.Grow):
		m.resizeFocus(resizeStep)
	case key.Matches(msg, m.keys.Shrink):
		m.resizeFocus(-resizeStep)
	case key.Matches(msg, m.keys.Lock):
		m.toggleLock()
	}
	return m, nil
}

func (m *tuiModel) cycleFocus(delta int) {
	tiles := m.layout.AllTiles()
	if len(tiles) == 0 {
		return
	}
	i := 0
	for j, t := range tiles {
		if t == m.focus {
			i = j
			break
		}
	}
	m.focus = tiles[(i+delta+len(tiles))%len(tiles)]
}

func (m *tuiModel) split(dir mosaic.Direction) {
	if m.focus == "" {
		return
	}
	id, err := m.ws.Split(m.ctx, m.focus, dir, "", mosaic.DefaultSplitPercentage)
	m.apply(err, "Split "+string(m.focus))
	if err == nil {
		m.focus = id
	}
}

// resizeFocus grows the focused tile's share of its parent split by delta.
func (m *tuiModel) resizeFocus(delta float64) {
	id, ok := m.layout.FindTile(m.focus)
	if !ok {
		return
	}
	n, _ := m.layout.Node(id)
	if !n.HasParent() {
		return
	}
	parent, _ := m.layout.Node(n.Parent)
	if parent.Second == id {
		delta = -delta
	}
	_, err := m.ws.Resize(m.ctx, string(parent.ID), parent.SplitPercentage+delta)
	m.apply(err, fmt.Sprintf("Resized %s", parent.ID))
}

func (m *tuiModel) toggleLock() {
	id, ok := m.layout.FindTile(m.focus)
	if !ok {
		return
	}
	n, _ := m.layout.Node(id)
	_, err := m.ws.SetLocked(m.ctx, string(id), !n.Locked)
	verb := "Locked "
	if n.Locked {
		verb = "Unlocked "
	}
	m.apply(err, verb+string(m.focus))
}

// =============================================================================
// Mouse
// =============================================================================

// cellCenter maps a terminal cell to the point at its centre.
func cellCenter(x, y int) mosaic.Point {
	return mosaic.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

func (m *tuiModel) handleMouse(msg tea.MouseMsg) {
	p := cellCenter(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press(p, msg.Y)
		}
	case tea.MouseActionMotion:
		m.motion(p)
	case tea.MouseActionRelease:
		m.release()
	}
}

func (m *tuiModel) press(p mosaic.Point, row int) {
	if sr, ok := m.dividerAt(p); ok {
		n, _ := m.layout.Node(sr.Node)
		if n.Locked {
			m.status, m.statusErr = fmt.Sprintf("split %s is locked", sr.Node), true
			return
		}
		m.resizing = &sr
		return
	}

	tr, ok := m.layout.TileAt(m.area(), p)
	if !ok {
		return
	}
	m.focus = tr.Tile
	if _, y0, _, _ := cellBounds(tr.Rect); row == y0 {
		m.drag.StartDrag(tr.Tile, p.X, p.Y)
		m.status, m.statusErr = "Moving "+string(tr.Tile), false
	}
}

// dividerAt returns the innermost split whose divider lies under p.
func (m *tuiModel) dividerAt(p mosaic.Point) (mosaic.SplitRect, bool) {
	var (
		hit   mosaic.SplitRect
		found bool
	)
	for _, sr := range m.layout.SplitRects(m.area()) {
		if !sr.Rect.Contains(p) {
			continue
		}
		pos := p.X
		if sr.Direction == mosaic.Vertical {
			pos = p.Y
		}
		if math.Abs(pos-sr.Divider) <= 1 {
			hit, found = sr, true
		}
	}
	return hit, found
}

func (m *tuiModel) motion(p mosaic.Point) {
	if m.resizing != nil {
		n, _ := m.layout.Node(m.resizing.Node)
		pct := mosaic.PercentageAt(n.Direction, p, m.resizing.Rect, n.MinPercentage, n.MaxPercentage)
		m.layout.UpdateSplit(n.ID, pct)
		return
	}

	dragged, ok := m.drag.DraggingTile()
	if !ok {
		return
	}
	m.drag.UpdatePosition(p.X, p.Y)
	tr, ok := m.layout.TileAt(m.area(), p)
	if !ok || tr.Tile == dragged {
		m.drag.ClearHover()
		return
	}
	if zone, ok := mosaic.CalculateDropZone(p, tr.Rect); ok {
		m.drag.UpdateHover(tr.Tile, zone)
	} else {
		m.drag.ClearHover()
	}
}

func (m *tuiModel) release() {
	if m.resizing != nil {
		id := m.resizing.Node
		m.resizing = nil
		n, _ := m.layout.Node(id)
		_, err := m.ws.Resize(m.ctx, string(id), n.SplitPercentage)
		m.apply(err, fmt.Sprintf("Resized %s to %s", id, formatPercent(n.SplitPercentage)))
		return
	}

	dragged, dragging := m.drag.DraggingTile()
	if !dragging {
		return
	}
	hover, hovering := m.drag.HoverTarget()
	moved, err := m.ws.Drop(m.ctx, m.drag)
	switch {
	case err != nil:
		m.apply(err, "")
	case moved:
		m.apply(nil, fmt.Sprintf("Moved %s %s of %s", dragged, hover.Zone, hover.Tile))
	case !hovering:
		m.apply(nil, "Drop cancelled")
	}
}

// =============================================================================
// View
// =============================================================================

func (m tuiModel) View() string {
	area := m.area()
	cv := newCanvas(int(area.Width), int(area.Height))

	if m.layout.IsEmpty() {
		cv.text(2, 1, cv.w, "Empty layout - press n to create a tile", cellBorder)
	}

	dragged, dragging := m.drag.DraggingTile()
	for _, tr := range m.layout.TileRects(area) {
		n, _ := m.layout.Node(tr.Node)
		border, title := cellBorder, cellTitle
		label := string(tr.Tile)
		switch {
		case dragging && tr.Tile == dragged:
			border, title = cellDragged, cellDragged
		case n.Locked:
			border = cellLocked
			label += " " + iconLock
		}
		if tr.Tile == m.focus && !(dragging && tr.Tile == dragged) {
			border, title = cellFocus, cellFocus
		}
		cv.box(tr.Rect, label, border, title)
	}

	if hover, ok := m.drag.HoverTarget(); ok {
		for _, tr := range m.layout.TileRects(area) {
			if tr.Tile == hover.Tile {
				cv.fill(mosaic.DropZoneRect(hover.Zone, tr.Rect), '░', cellDropZone)
			}
		}
	}

	var b strings.Builder
	b.WriteString(cv.String())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m tuiModel) statusLine() string {
	if hover, ok := m.drag.HoverTarget(); ok {
		return StyleWarning.Render(fmt.Sprintf("drop %s of %s", hover.Zone, hover.Tile))
	}
	if m.status != "" {
		if m.statusErr {
			return styleIconError.Render(iconError) + " " + m.status
		}
		return StyleDim.Render(m.status)
	}
	return StyleDim.Render(fmt.Sprintf("%s · %d tiles", m.ws.Key(), len(m.layout.AllTiles())))
}
