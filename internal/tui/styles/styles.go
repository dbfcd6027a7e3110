package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/hackboard/internal/domain"
)

// Color palette
var (
	Amber      = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
	Purple     = lipgloss.Color("#A855F7")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Amber).
			Padding(0, 1)
)

// Tab styles for the page header
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Amber).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Card styles
var (
	CardMarker = AccentStyle.Render("▌")

	SelectedTitleStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)

	LockedStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Italic(true)
)

// Skeleton placeholder styles
var (
	SkeletonStyle = lipgloss.NewStyle().
			Foreground(SlateLight)

	SkeletonShineStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Calendar styles
var (
	CalendarHeaderStyle = lipgloss.NewStyle().
				Foreground(White).
				Bold(true)

	WeekdayStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	DayStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	EventDayStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	SelectedDayStyle = lipgloss.NewStyle().
				Foreground(SlateDark).
				Background(Amber).
				Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Amber)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Amber)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)
)

// SpinnerFrames is the braille spinner shared by every loading indicator
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner returns the spinner glyph for an animation frame
func Spinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return SpinnerStyle.Render(SpinnerFrames[frame%len(SpinnerFrames)])
}

// RarityStyle returns the foreground style for a rarity tier
func RarityStyle(r domain.Rarity) lipgloss.Style {
	switch r {
	case domain.RarityRare:
		return lipgloss.NewStyle().Foreground(Blue)
	case domain.RarityEpic:
		return lipgloss.NewStyle().Foreground(Purple)
	case domain.RarityLegendary:
		return lipgloss.NewStyle().Foreground(Amber).Bold(true)
	default:
		return SubtitleStyle
	}
}

// EventKindStyle returns the foreground style for a calendar event kind
func EventKindStyle(k domain.EventKind) lipgloss.Style {
	switch k {
	case domain.EventDeadline:
		return ErrorStyle
	case domain.EventDemo:
		return lipgloss.NewStyle().Foreground(Purple)
	case domain.EventSocial:
		return SuccessStyle
	default:
		return lipgloss.NewStyle().Foreground(Blue)
	}
}

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Pad pads a possibly styled string with spaces to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + spaces(width-w)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
