package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hackboard/internal/eventloop"
)

// maxSettleRounds bounds Snapshot in case a source never stops paging
const maxSettleRounds = 10000

// Snapshot sizes the model and steps q until no completions remain, then
// returns the settled model and its final frame. The model must have been
// built with q as its loop.
func Snapshot(m Model, q *eventloop.Queue, width, height int) (Model, string) {
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	m = next.(Model)

	for i := 0; i < maxSettleRounds; i++ {
		if q.Drain() == 0 {
			break
		}
		m.sync()
	}
	return m, m.View()
}
