package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hackboard/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	body := m.renderPage()
	if m.ShowHelp {
		body = m.renderHelp()
	} else if m.fade.active() {
		body = fadeIn(body, m.fade.progress())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) renderPage() string {
	if m.Page == PageCalendar {
		return m.Calendar.View()
	}
	return m.Feed.View()
}

func (m Model) renderHeader() string {
	var tabs []string
	for _, p := range []Page{PageAchievements, PageCalendar} {
		style := styles.InactiveTabStyle
		if p == m.Page {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(p.String()))
	}
	left := strings.Join(tabs, " ")
	right := styles.AccentStyle.Render("hackboard")
	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter shows the status on the left and short help on the right.
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.Page == PageAchievements:
		left = styles.DimStyle.Render(fmt.Sprintf("%d/%d loaded", m.Feed.Len(), m.loader.source.Total()))
		if m.loader.loading {
			left = styles.Spinner(m.SpinnerFrame) + " " + left
		}
	default:
		left = styles.DimStyle.Render(fmt.Sprintf("%d events this day", len(m.Calendar.SelectedEvents())))
	}

	helpView := m.Help.ShortHelpView(Keys.ShortHelp())
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(helpView)
	if gap < 1 {
		return styles.Truncate(left, m.Width)
	}
	return left + strings.Repeat(" ", gap) + helpView
}

func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true
	content := styles.TitleStyle.Render("Keys") + "\n\n" + h.FullHelpView(Keys.FullHelp()) +
		"\n\n" + styles.DimStyle.Render("press any key to close")

	// Width and Height include padding but not the border
	style := styles.ActiveBorder.Padding(1, 2)
	return style.
		Width(max(m.Width-style.GetHorizontalBorderSize(), 0)).
		Height(max(m.Height-ChromeHeight-style.GetVerticalBorderSize(), 0)).
		Render(content)
}
