package tui

// UI Text Constants
const (
	TextStartInstruction = "Describe an edit, e.g. \"speed up my video 2x and make it grayscale\""

	TextFooter = "Enter to send | Esc or Ctrl+C to quit"
)
