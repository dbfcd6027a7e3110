package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hackboard/internal/adapter"
	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/eventloop"
	"github.com/mmcdole/hackboard/internal/infinitescroll"
	"github.com/mmcdole/hackboard/internal/lazyimage"
	"github.com/mmcdole/hackboard/internal/tui/components"
	"github.com/mmcdole/hackboard/internal/tui/styles"
	"github.com/mmcdole/hackboard/internal/visibility"
)

// Page identifies a top-level dashboard page
type Page int

const (
	PageAchievements Page = iota
	PageCalendar
)

func (p Page) String() string {
	if p == PageCalendar {
		return "Calendar"
	}
	return "Achievements"
}

// ParsePage maps a config value to a page, defaulting to achievements
func ParsePage(s string) Page {
	if s == "calendar" {
		return PageCalendar
	}
	return PageAchievements
}

// Vertical chrome: tab header and footer line
const ChromeHeight = 2

// Listener is implemented by loops whose completions arrive as messages
type Listener interface {
	Listen() tea.Cmd
}

// Deps wires the model to its collaborators
type Deps struct {
	Achievements domain.AchievementSource
	Events       domain.EventSource
	Observer     visibility.Observer
	Loop         eventloop.Loop
	Fetcher      lazyimage.Fetcher
	Config       *adapter.Config
	Logger       *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Page  Page
	Ready bool

	observer visibility.Observer
	loop     eventloop.Loop
	cfg      *adapter.Config
	logger   *slog.Logger

	// UI Components
	Feed     *components.Feed
	Calendar *components.Calendar
	Help     help.Model

	loader  *feedLoader
	trigger *infinitescroll.Trigger

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	statusSeq    int
	SpinnerFrame int
	ShowHelp     bool
	fade         fade
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = adapter.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	feed := components.NewFeed(cfg.Images.Width, cfg.Images.Height)
	feed.SetTotal(deps.Achievements.Total())

	loader := &feedLoader{
		source:   deps.Achievements,
		loop:     deps.Loop,
		observer: deps.Observer,
		fetcher:  deps.Fetcher,
		feed:     feed,
		pageSize: cfg.Feed.PageSize,
		imageOpts: visibility.Options{
			Threshold:  cfg.Images.Threshold,
			RootMargin: cfg.Images.RootMargin,
		},
		logger:  logger.With("component", "feed"),
		hasMore: true,
	}

	trigger := infinitescroll.New(deps.Observer, logger)
	trigger.Attach(feed.Sentinel())

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	m := Model{
		Page:     ParsePage(cfg.UI.DefaultPage),
		observer: deps.Observer,
		loop:     deps.Loop,
		cfg:      cfg,
		logger:   logger,
		Feed:     feed,
		Calendar: components.NewCalendar(deps.Events, startOf(deps.Events)),
		Help:     h,
		loader:   loader,
		trigger:  trigger,
	}
	m.updateTrigger()
	return m
}

// startOf picks the calendar's initial day from the event source when it
// knows the event start.
func startOf(events domain.EventSource) time.Time {
	if s, ok := events.(interface{ Start() time.Time }); ok {
		return s.Start()
	}
	return time.Now()
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(tickInterval)}
	if l, ok := m.loop.(Listener); ok {
		cmds = append(cmds, l.Listen())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKeyMsg(msg)
		cmds = append(cmds, cmd)

	case eventloop.CompletionMsg:
		msg.Apply()
		if err := m.loader.takeError(); err != nil {
			cmds = append(cmds, func() tea.Msg {
				return ErrMsg{Err: err, Context: "loading achievements"}
			})
		}
		if l, ok := m.loop.(Listener); ok {
			cmds = append(cmds, l.Listen())
		}

	case TickMsg:
		m.SpinnerFrame++
		m.Feed.SetSpinnerFrame(m.SpinnerFrame)
		m.fade.advance()
		cmds = append(cmds, TickCmd(tickInterval))

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}

	case ErrMsg:
		m.logger.Error("command failed", "error", msg)
		cmds = append(cmds, m.setStatus(msg.Error(), true))
	}

	m.sync()
	return m, tea.Batch(cmds...)
}

// sync feeds the current layout and flags to the observers. It runs after
// every message, so the trigger always sees this render's inputs.
func (m *Model) sync() {
	m.updateTrigger()
	if vo, ok := m.observer.(*visibility.ViewportObserver); ok {
		// Nothing in the feed is visible while another page is shown
		root := visibility.Rect{}
		if m.Page == PageAchievements {
			root = m.Feed.Viewport()
		}
		vo.SetRoot(root)
	}
	m.observer.Check()
	// Callbacks may have started a page load.
	m.updateTrigger()
}

func (m *Model) updateTrigger() {
	m.trigger.Update(m.loader, m.loader.canLoad(), m.loader.loading,
		infinitescroll.WithThreshold(m.cfg.Feed.Threshold),
		infinitescroll.WithRootMargin(m.cfg.Feed.RootMargin),
	)
}

func (m *Model) updateLayout() {
	h := max(m.Height-ChromeHeight, 0)
	m.Feed.SetSize(m.Width, h)
	m.Calendar.SetSize(m.Width, h)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Typing into the filter swallows everything but ctrl+c
	if m.Page == PageAchievements && m.Feed.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		cmd := m.Feed.Update(msg)
		m.updateLayout()
		return m, cmd
	}

	if m.ShowHelp {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.ShowHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, Keys.SwitchPage):
		m.switchPage()
		return m, nil
	}

	switch m.Page {
	case PageAchievements:
		m.loader.resume()
		switch {
		case key.Matches(msg, Keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, Keys.Filter) && !m.Feed.IsFiltering():
			m.Feed.ToggleFilter()
			m.updateLayout()
			return m, nil
		}
		cmd := m.Feed.Update(msg)
		m.updateLayout()
		return m, cmd
	case PageCalendar:
		return m, m.Calendar.Update(msg)
	}
	return m, nil
}

func (m *Model) switchPage() {
	if m.Page == PageAchievements {
		m.Page = PageCalendar
	} else {
		m.Page = PageAchievements
	}
	m.fade.start(int(m.cfg.UI.Transition / tickInterval))
	m.logger.Debug("page switched", "page", m.Page)
}

// refresh drops the loaded feed. The sentinel is detached across the reset
// so the first page loads through a fresh observer binding.
func (m *Model) refresh() tea.Cmd {
	m.trigger.Attach(nil)
	n := m.loader.reset()
	m.trigger.Attach(m.Feed.Sentinel())
	m.logger.Info("feed refreshed", "unmounted", n)
	return m.setStatus("Refreshed", false)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, 3*time.Second)
}

// Close releases the model's observer binding.
func (m Model) Close() {
	m.trigger.Close()
}
