package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/tui/styles"
)

// cellWidth is the width of one day in the month grid, including the gap
const cellWidth = 4

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Calendar is a month grid with a day cursor and the selected day's agenda.
type Calendar struct {
	source domain.EventSource
	home   time.Time // Day the "t" key returns to
	day    time.Time // Selected day, midnight local

	width  int
	height int
}

// NewCalendar creates a calendar with start selected.
func NewCalendar(source domain.EventSource, start time.Time) *Calendar {
	d := midnight(start)
	return &Calendar{source: source, home: d, day: d}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (c *Calendar) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Selected returns the selected day.
func (c *Calendar) Selected() time.Time {
	return c.day
}

// Month returns the first day of the displayed month.
func (c *Calendar) Month() time.Time {
	return time.Date(c.day.Year(), c.day.Month(), 1, 0, 0, 0, 0, c.day.Location())
}

// SelectedEvents returns the agenda of the selected day.
func (c *Calendar) SelectedEvents() []domain.CalendarEvent {
	return c.source.EventsOn(c.day)
}

// MoveDays shifts the selection by n days, crossing months as needed.
func (c *Calendar) MoveDays(n int) {
	c.day = c.day.AddDate(0, 0, n)
}

// ShiftMonth moves the selection n months, keeping the day of month where
// the target month is long enough.
func (c *Calendar) ShiftMonth(n int) {
	first := c.Month().AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := min(c.day.Day(), last)
	c.day = time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())
}

// Update handles grid navigation keys.
func (c *Calendar) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "h", "left":
		c.MoveDays(-1)
	case "l", "right":
		c.MoveDays(1)
	case "k", "up":
		c.MoveDays(-7)
	case "j", "down":
		c.MoveDays(7)
	case "[":
		c.ShiftMonth(-1)
	case "]":
		c.ShiftMonth(1)
	case "t":
		c.day = c.home
	}
	return nil
}

func (c *Calendar) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()
	inner := max(c.width-frameW, 0)

	grid := c.renderGrid()
	agendaWidth := inner - lipgloss.Width(grid) - 4
	var content string
	if agendaWidth >= 24 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", c.renderAgenda(agendaWidth))
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left, grid, "", c.renderAgenda(max(inner, 1)))
	}

	return style.
		Width(inner).
		Height(max(c.height-frameH, 0)).
		Render(content)
}

// renderGrid draws the month with Monday-first weeks. Days with events are
// highlighted and carry a dot.
func (c *Calendar) renderGrid() string {
	first := c.Month()
	days := first.AddDate(0, 1, -1).Day()

	busy := make(map[int]bool)
	for _, e := range c.source.EventsIn(first.Year(), first.Month()) {
		for d := 1; d <= days; d++ {
			if e.OnDate(time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, first.Location())) {
				busy[d] = true
			}
		}
	}

	gridWidth := cellWidth * len(weekdays)
	header := lipgloss.PlaceHorizontal(gridWidth, lipgloss.Center,
		styles.CalendarHeaderStyle.Render(first.Format("January 2006")))

	var names strings.Builder
	for _, w := range weekdays {
		names.WriteString(styles.WeekdayStyle.Render(fmt.Sprintf("%3s ", w)))
	}

	lines := []string{header, names.String()}

	// Monday = 0
	lead := (int(first.Weekday()) + 6) % 7
	var row strings.Builder
	row.WriteString(strings.Repeat(" ", lead*cellWidth))
	col := lead
	for d := 1; d <= days; d++ {
		row.WriteString(c.renderDay(d, busy[d]))
		col++
		if col == len(weekdays) {
			lines = append(lines, row.String())
			row.Reset()
			col = 0
		}
	}
	if col > 0 {
		lines = append(lines, row.String())
	}

	lines = append(lines, "", styles.DimStyle.Render("[ ] month  t today"))
	return strings.Join(lines, "\n")
}

func (c *Calendar) renderDay(d int, busy bool) string {
	label := fmt.Sprintf("%2d", d)
	marker := " "
	if busy {
		marker = "•"
	}

	switch {
	case d == c.day.Day():
		return " " + styles.SelectedDayStyle.Render(label+marker)
	case busy:
		return " " + styles.EventDayStyle.Render(label+marker)
	default:
		return " " + styles.DayStyle.Render(label) + " "
	}
}

func (c *Calendar) renderAgenda(width int) string {
	lines := []string{styles.TitleStyle.Render(c.day.Format("Monday, Jan 2"))}

	events := c.SelectedEvents()
	if len(events) == 0 {
		lines = append(lines, styles.DimStyle.Render("Nothing scheduled"))
		return strings.Join(lines, "\n")
	}

	for _, e := range events {
		when := e.Start.Format("15:04")
		if e.End.After(e.Start) {
			when += "-" + e.End.Format("15:04")
		}
		kind := styles.EventKindStyle(e.Kind).Render(fmt.Sprintf("%-8s", e.Kind))
		line := styles.DimStyle.Render(when) + "  " + kind + " " + e.Title
		lines = append(lines, styles.Truncate(line, width))
	}
	return strings.Join(lines, "\n")
}
