package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GridColumn defines a single column for Grid.
//
// Width is the visual width of the cell content excluding separators. The
// last column absorbs whatever width is left over.
type GridColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

const gridLeftOffset = 2

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(borderColor)

	gridActiveRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#1f2530")).
				Bold(true)
)

// Grid renders rows under a header using the rounded border glyphs of the
// box components. activeRow highlights one data row; pass -1 for none.
// The returned lines are exactly width columns wide.
func Grid(columns []GridColumn, rows [][]string, width int, activeRow int) string {
	if width <= 0 || len(columns) == 0 {
		return ""
	}
	border := lipgloss.RoundedBorder()
	cols := fitColumns(columns, lipgloss.Width(border.Left), width)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, gridRow(cols, header, border.Left, width, boxLabelStyle))
	out = append(out, gridRule(cols, border.Middle, border.Top, width))
	for i, row := range rows {
		style := lipgloss.NewStyle()
		if i == activeRow {
			style = gridActiveRowStyle
		}
		out = append(out, gridRow(cols, row, border.Left, width, style))
	}
	return strings.Join(out, "\n")
}

func fitColumns(columns []GridColumn, sepWidth, width int) []GridColumn {
	fitted := make([]GridColumn, len(columns))
	copy(fitted, columns)
	sum := 0
	for i := range fitted {
		if fitted[i].Width < 1 {
			fitted[i].Width = 1
		}
		sum += fitted[i].Width
	}
	sum += (len(fitted) - 1) * sepWidth
	last := &fitted[len(fitted)-1]
	last.Width += width - gridLeftOffset - sum
	if last.Width < 1 {
		last.Width = 1
	}
	return fitted
}

func gridRow(columns []GridColumn, cells []string, sep string, width int, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(gridLineStyle.Inline(true).Render(sep))
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		b.WriteString(style.Inline(true).Render(gridCell(text, col.Width, col.Align)))
	}
	return padRight(b.String(), width)
}

func gridRule(columns []GridColumn, cross, horiz string, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range columns {
		b.WriteString(strings.Repeat(horiz, col.Width))
		if i < len(columns)-1 {
			b.WriteString(cross)
		}
	}
	return gridLineStyle.Inline(true).Render(padRight(b.String(), width))
}

func gridCell(text string, width int, align lipgloss.Position) string {
	clamped := ClampTextWidth(text, width)
	pad := width - lipgloss.Width(clamped)
	if pad <= 0 {
		return clamped
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	default:
		return clamped + strings.Repeat(" ", pad)
	}
}
