package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mmcdole/hackboard/internal/tui/styles"
)

// fade is the page switch transition, counted in ticks.
type fade struct {
	step  int
	total int
}

func (f *fade) start(ticks int) {
	f.step = 0
	f.total = max(ticks, 0)
}

func (f *fade) advance() {
	if f.active() {
		f.step++
	}
}

func (f fade) active() bool {
	return f.step < f.total
}

// progress runs from just above 0 to 1 over the transition.
func (f fade) progress() float64 {
	if !f.active() {
		return 1
	}
	return float64(f.step+1) / float64(f.total+1)
}

// fadeIn renders view as plain text in a single color blended from the
// background toward the foreground by progress.
func fadeIn(view string, progress float64) string {
	from, err1 := colorful.Hex(string(styles.SlateDark))
	to, err2 := colorful.Hex(string(styles.LightGray))
	if err1 != nil || err2 != nil || progress >= 1 {
		return view
	}
	c := from.BlendLab(to, progress).Clamped()
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))

	lines := strings.Split(ansi.Strip(view), "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}
