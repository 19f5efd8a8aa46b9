package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// State represents the client state machine
type State string

const (
	StateConnecting State = "connecting"
	StateReady      State = "ready"
	StateThinking   State = "thinking"
	StateError      State = "error"
)

// ChatLine is one rendered transcript entry.
type ChatLine struct {
	Role  string // "you", "bot", "tool"
	Text  string
	Calls []ToolCall
}

// Model represents the TUI client state (thin client)
type Model struct {
	Client *ServerClient

	State          State
	OperationCount int
	Transcript     []ChatLine
	History        []Turn
	Input          string
	Err            error
}

// NewModel creates a new TUI model
func NewModel(serverURL string) Model {
	return Model{
		Client: NewServerClient(serverURL),
		State:  StateConnecting,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return checkServer(m.Client)
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateConnecting:
		return StatusStyle.Render("Connecting to server...")
	case StateReady:
		return StatusStyle.Render(fmt.Sprintf("Connected — %d operations available", m.OperationCount))
	case StateThinking:
		return StatusStyle.Render("Thinking...")
	case StateError:
		errMsg := "unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render("Error: " + errMsg)
	default:
		return ""
	}
}

// formatToolCall renders one proposed operation for display.
func formatToolCall(call ToolCall) string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render(call.Name))
	if len(call.Args) > 0 {
		var pairs []string
		for k, v := range call.Args {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
		}
		b.WriteString(" " + InfoStyle.Render(strings.Join(pairs, " ")))
	}
	if call.Error != "" {
		b.WriteString("\n" + ErrorStyle.Render("  rejected: "+call.Error))
	}
	return b.String()
}
