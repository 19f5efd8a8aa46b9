package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case ConnectedMsg:
		return m.handleConnected(msg)
	case ChatReplyMsg:
		return m.handleChatReply(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyBackspace:
		if len(m.Input) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.Input)
			m.Input = m.Input[:len(m.Input)-size]
		}
		return m, nil
	case tea.KeySpace:
		m.Input += " "
		return m, nil
	case tea.KeyRunes:
		m.Input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

// submit sends the typed message when the client is ready for one.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.Input)
	if text == "" || m.State == StateThinking || m.State == StateConnecting {
		return m, nil
	}
	m.Input = ""
	m.State = StateThinking
	m.Transcript = append(m.Transcript, ChatLine{Role: "you", Text: text})

	// History carries the turns before this message.
	history := make([]Turn, len(m.History))
	copy(history, m.History)
	m.History = append(m.History, Turn{Role: "user", Text: text})

	return m, sendChat(m.Client, text, history)
}

// handleConnected processes the startup health check
func (m Model) handleConnected(msg ConnectedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateReady
	m.OperationCount = msg.OperationCount
	return m, nil
}

// handleChatReply processes the server's answer
func (m Model) handleChatReply(msg ChatReplyMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateReady
	m.Err = nil

	line := ChatLine{Role: "bot", Text: msg.Reply.Text, Calls: msg.Reply.Calls}
	m.Transcript = append(m.Transcript, line)
	if msg.Reply.Text != "" {
		m.History = append(m.History, Turn{Role: "assistant", Text: msg.Reply.Text})
	}
	return m, nil
}
