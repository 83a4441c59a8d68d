package components

import "github.com/charmbracelet/lipgloss"

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2).
			Width(44)

	dialogHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := boxHeaderStyle.Render(SanitizeOneLine(title))
	body := dialogHintStyle.Render(SanitizeText(message))
	hint := dialogHintStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// InputDialog renders a prompt around an already rendered input field.
func InputDialog(title, field string) string {
	header := boxHeaderStyle.Render(SanitizeOneLine(title))
	prompt := boxLabelStyle.Render("> ") + field
	hint := dialogHintStyle.Render("\nenter: submit | esc: cancel")
	return dialogStyle.Render(header + "\n\n" + prompt + hint)
}
