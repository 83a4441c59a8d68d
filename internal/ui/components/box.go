package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	borderColor       = lipgloss.Color("#273540")
	activeBorderColor = lipgloss.Color("#7f57b4")

	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	boxBorderActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(activeBorderColor).
			Padding(1, 2)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(activeBorderColor).
			Bold(true)

	boxValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))

	boxLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#436b77")).
			Bold(true)

	errorBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7a2f3a")).
			Padding(1, 2)

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6b5b5"))
)

func boxWidth(width int) int {
	// ~70% of terminal width, between 40 and 80 columns
	if width <= 0 {
		return 0
	}
	w := width * 70 / 100
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	if w > width {
		w = width
	}
	return w
}

// BoxContentWidth returns the inner content width excluding border and padding.
func BoxContentWidth(width int) int {
	// Border adds 2, padding adds 4.
	inner := boxWidth(width) - 6
	if inner < 0 {
		return 0
	}
	return inner
}

// ErrorBox renders a red bordered box for errors.
func ErrorBox(title, message string, width int) string {
	header := ""
	if title != "" {
		header = errorHeaderStyle.Render(title) + "\n\n"
	}
	body := errorBodyStyle.Render(SanitizeText(message))
	return errorBorder.Width(boxWidth(width)).Render(header + body)
}

// TitledBox renders a box with the title set into the top border.
func TitledBox(title, content string, width int) string {
	return titledBox(title, content, width, boxBorder, borderColor)
}

// ActiveTitledBox is TitledBox with the highlighted border.
func ActiveTitledBox(title, content string, width int) string {
	return titledBox(title, content, width, boxBorderActive, activeBorderColor)
}

func titledBox(title, content string, width int, style lipgloss.Style, color lipgloss.Color) string {
	boxed := style.Width(boxWidth(width)).Render(content)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 4 {
		return boxed
	}

	border := lipgloss.RoundedBorder()
	middle := lineWidth - 2
	label := fmt.Sprintf(" [ %s ] ", SanitizeOneLine(title))
	if lipgloss.Width(label) > middle {
		label = truncateRunes(label, middle)
	}
	left := (middle - lipgloss.Width(label)) / 2
	right := middle - lipgloss.Width(label) - left

	edge := lipgloss.NewStyle().Foreground(color)
	lines[0] = edge.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

// ClampTextWidth truncates text to the given visual width.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	if width == 1 {
		return "…"
	}
	return truncateRunes(cleaned, width-1) + "…"
}

// TableRow is a single row in a key-value table.
type TableRow struct {
	Label string
	Value string
}

// Table renders label/value rows with aligned columns inside a titled box.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(SanitizeOneLine(r.Label)); w > labelWidth {
			labelWidth = w
		}
	}
	contentWidth := BoxContentWidth(width)
	if contentWidth > 0 && labelWidth > contentWidth/2 {
		labelWidth = contentWidth / 2
	}
	valueWidth := contentWidth - labelWidth - 2
	if valueWidth < 4 {
		valueWidth = 0
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := padRight(ClampTextWidth(r.Label, labelWidth), labelWidth)
		lines = append(lines, boxLabelStyle.Render(label)+"  "+boxValueStyle.Render(ClampTextWidth(r.Value, valueWidth)))
	}
	return TitledBox(title, strings.Join(lines, "\n"), width)
}

// Indent adds left padding to every line of a multi-line string.
func Indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
