package tui

import (
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("clipchat"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Transcript
	for _, line := range m.Transcript {
		switch line.Role {
		case "you":
			b.WriteString(HighlightStyle.Render("you") + " " + line.Text)
		case "bot":
			b.WriteString(StatusStyle.Render("bot") + " " + line.Text)
		}
		b.WriteString("\n")
		for _, call := range line.Calls {
			b.WriteString(BoxStyle.Render(formatToolCall(call)))
			b.WriteString("\n")
		}
	}
	if len(m.Transcript) > 0 {
		b.WriteString("\n")
	}

	// Input line
	if m.State != StateConnecting {
		b.WriteString("> " + m.Input + "█")
		b.WriteString("\n\n")
	}

	// Help text
	if len(m.Transcript) == 0 && m.State == StateReady {
		b.WriteString(InfoStyle.Render(TextStartInstruction))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(TextFooter))

	return b.String()
}
