package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// checkServer creates a command that pings the server on startup.
func checkServer(client *ServerClient) tea.Cmd {
	return func() tea.Msg {
		count, err := client.Health()
		return ConnectedMsg{OperationCount: count, Err: err}
	}
}

// sendChat creates a command that sends one message with history.
func sendChat(client *ServerClient, message string, history []Turn) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.Chat(message, history)
		return ChatReplyMsg{Reply: reply, Err: err}
	}
}
