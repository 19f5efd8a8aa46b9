package tui

// Messages for the tea program

// ConnectedMsg is sent after the startup health check.
type ConnectedMsg struct {
	OperationCount int
	Err            error
}

// ChatReplyMsg is sent when the server answers a chat message.
type ChatReplyMsg struct {
	Reply *ChatReply
	Err   error
}
