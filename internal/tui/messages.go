package tui

// Message types for the TUI. Async results arrive as
// eventloop.CompletionMsg; these cover timers and failures.

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status line if it still shows the message
// with the same sequence number
type ClearStatusMsg struct {
	Seq int
}
