package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mosaic/internal/workspace"
	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, drop zones
	colorRed    = lipgloss.Color("167") // Soft red - errors, locks
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleLocked marks locked nodes.
	StyleLocked = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconLock    = "⊘"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printHints prints the suggestions carried by err, if any.
func printHints(err error) {
	s := mosaicerrors.Suggestions(err)
	if len(s) == 0 {
		return
	}
	if mosaicerrors.Is(err, mosaicerrors.ErrCodeNotFound) {
		printDetail("%s", workspace.FormatSuggestions(s))
		return
	}
	for _, cmd := range s {
		printNextStep("Try", cmd)
	}
}

// =============================================================================
// Layout Output
// =============================================================================

// nodeLabel renders a node for tree output.
func nodeLabel(n mosaic.Node) string {
	var label string
	if n.IsTile() {
		label = StyleValue.Render(string(n.TileID))
	} else {
		label = StyleHighlight.Render(fmt.Sprintf("%s %s", n.Direction, formatPercent(n.SplitPercentage)))
	}
	label += " " + StyleDim.Render(string(n.ID))
	if n.Locked {
		label += " " + StyleLocked.Render(iconLock+" locked")
	}
	return label
}

// renderTree draws the split tree with box-drawing connectors.
func renderTree(l *mosaic.Layout) string {
	root, ok := l.Root()
	if !ok {
		return StyleDim.Render("(empty layout)")
	}
	var b strings.Builder
	var rec func(id mosaic.NodeID, prefix, connector string)
	rec = func(id mosaic.NodeID, prefix, connector string) {
		n, _ := l.Node(id)
		b.WriteString(prefix + StyleDim.Render(connector) + nodeLabel(n) + "\n")
		first, second, isSplit := n.Children()
		if !isSplit {
			return
		}
		childPrefix := prefix
		switch connector {
		case "├─ ":
			childPrefix += StyleDim.Render("│  ")
		case "└─ ":
			childPrefix += "   "
		}
		rec(first, childPrefix, "├─ ")
		rec(second, childPrefix, "└─ ")
	}
	rec(root, "", "")
	return strings.TrimSuffix(b.String(), "\n")
}

// printStats prints layout statistics on a single line.
func printStats(l *mosaic.Layout, key string) {
	tiles, splits, locked := 0, 0, 0
	for _, n := range l.Nodes() {
		if n.IsTile() {
			tiles++
		} else {
			splits++
		}
		if n.Locked {
			locked++
		}
	}
	parts := []string{
		fmt.Sprintf("%d tiles", tiles),
		fmt.Sprintf("%d splits", splits),
	}
	if locked > 0 {
		parts = append(parts, fmt.Sprintf("%d locked", locked))
	}
	parts = append(parts, "key "+key)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// tileTable renders one row per tile with its node, lock state and share of
// the screen.
func tileTable(l *mosaic.Layout) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	area := mosaic.Rect{Width: 100, Height: 100}

	var rows [][]string
	lockedRows := map[int]bool{}
	for i, tr := range l.TileRects(area) {
		n, _ := l.Node(tr.Node)
		lock := ""
		if n.Locked {
			lock = iconLock
			lockedRows[i] = true
		}
		share := tr.Rect.Width * tr.Rect.Height / 100
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			string(tr.Tile),
			string(tr.Node),
			lock,
			formatPercent(share),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Tile", "Node", "Lock", "Area").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 3 && lockedRows[row]:
				return StyleLocked
			case col == 0 || col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func formatPercent(p float64) string {
	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.1f", p), "0"), ".") + "%"
}
