package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Animation cadence for spinners, shimmer and the page fade
const tickInterval = 80 * time.Millisecond

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears a transient status line after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
