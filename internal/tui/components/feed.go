package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hackboard/internal/tui/styles"
	"github.com/mmcdole/hackboard/internal/visibility"
	"github.com/sahilm/fuzzy"
)

// Layout constants for the feed
const (
	markerWidth   = 1 // Selection marker before the badge
	cardTextLines = 4 // Title, rarity, description, status
	feedChrome    = 1 // Title line
)

// Feed is the scrollable achievement list. Content coordinates start at the
// first card's top row; each card is cardHeight rows tall and the sentinel
// row follows the last displayed card.
type Feed struct {
	cards []*Card
	shown []int // Indices into cards while filtering, nil otherwise

	// Selection and scroll
	cursor int
	offset int // First content row in view

	// Dimensions
	width  int
	height int
	imgW   int
	imgH   int

	// Paging state mirrored from the loader
	loading      bool
	hasMore      bool
	total        int
	errText      string
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string

	sentinel *Sentinel
	now      func() time.Time
}

// NewFeed creates an empty feed whose badges are imgW x imgH cells.
func NewFeed(imgW, imgH int) *Feed {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	f := &Feed{
		imgW:        imgW,
		imgH:        imgH,
		hasMore:     true,
		filterInput: ti,
		now:         time.Now,
	}
	f.sentinel = &Sentinel{feed: f}
	return f
}

// Sentinel is the trailing row that signals the end of loaded content.
type Sentinel struct {
	feed *Feed
}

// Bounds implements visibility.Target. The sentinel is detached while a
// filter query narrows the list.
func (s *Sentinel) Bounds() (visibility.Rect, bool) {
	f := s.feed
	if f.filterQuery != "" {
		return visibility.Rect{}, false
	}
	return visibility.Rect{Y: f.contentRows(), Width: max(f.innerWidth(), 1), Height: 1}, true
}

// Sentinel returns the feed's trailing row target. The pointer is stable
// for the feed's lifetime.
func (f *Feed) Sentinel() *Sentinel {
	return f.sentinel
}

// Append adds cards at the end of the feed.
func (f *Feed) Append(cards ...*Card) {
	for _, c := range cards {
		c.feed = f
		f.cards = append(f.cards, c)
	}
	if f.filterQuery != "" {
		f.applyFilter()
		return
	}
	f.layout()
}

// Reset unmounts every card's badge and empties the feed. It returns the
// number of cards removed.
func (f *Feed) Reset() int {
	n := len(f.cards)
	for _, c := range f.cards {
		if c.Asset != nil {
			c.Asset.Unmount()
		}
		c.feed = nil
		c.slot = -1
	}
	f.cards = nil
	f.shown = nil
	f.cursor = 0
	f.offset = 0
	f.errText = ""
	f.hasMore = true
	f.clearFilter()
	return n
}

// Cards returns every loaded card in feed order.
func (f *Feed) Cards() []*Card {
	return f.cards
}

// Len returns the number of loaded cards.
func (f *Feed) Len() int {
	return len(f.cards)
}

// ItemCount returns the number of displayed cards.
func (f *Feed) ItemCount() int {
	if f.shown != nil {
		return len(f.shown)
	}
	return len(f.cards)
}

// Selected returns the card under the cursor, or nil.
func (f *Feed) Selected() *Card {
	if f.cursor >= f.ItemCount() {
		return nil
	}
	return f.cards[f.mapIndex(f.cursor)]
}

// SelectedIndex returns the cursor position among displayed cards.
func (f *Feed) SelectedIndex() int {
	return f.cursor
}

// Viewport returns the visible content box, which is the observer root.
func (f *Feed) Viewport() visibility.Rect {
	return visibility.Rect{Y: f.offset, Width: f.innerWidth(), Height: f.viewportHeight()}
}

// ScrollOffset returns the first content row in view.
func (f *Feed) ScrollOffset() int {
	return f.offset
}

func (f *Feed) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.ensureVisible()
}

func (f *Feed) SetLoading(loading bool) {
	f.loading = loading
}

func (f *Feed) IsLoading() bool {
	return f.loading
}

func (f *Feed) SetHasMore(hasMore bool) {
	f.hasMore = hasMore
}

// SetTotal sets the size of the whole feed for the title line.
func (f *Feed) SetTotal(total int) {
	f.total = total
}

// SetError shows a paging error on the sentinel row; "" clears it.
func (f *Feed) SetError(text string) {
	f.errText = text
}

// SetSpinnerFrame updates the animation frame
func (f *Feed) SetSpinnerFrame(frame int) {
	f.spinnerFrame = frame
}

// ToggleFilter activates the filter input
func (f *Feed) ToggleFilter() {
	f.filterActive = true
	f.filterInput.Focus()
	f.ensureVisible()
}

// IsFiltering returns true if filter mode is active
func (f *Feed) IsFiltering() bool {
	return f.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (f *Feed) IsFilterTyping() bool {
	return f.filterActive && f.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all cards
func (f *Feed) ClearFilter() {
	f.clearFilter()
}

// Update handles navigation and filter keys.
func (f *Feed) Update(msg tea.Msg) tea.Cmd {
	if f.IsFilterTyping() {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				f.clearFilter()
				return nil
			case "enter":
				// Accept filter, blur input to allow navigation
				f.filterInput.Blur()
				return nil
			case "backspace":
				if f.filterInput.Value() == "" {
					f.clearFilter()
					return nil
				}
			}
		}

		var cmd tea.Cmd
		f.filterInput, cmd = f.filterInput.Update(msg)
		f.applyFilter()
		return cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if f.filterActive {
		switch key.String() {
		case "esc":
			f.clearFilter()
			return nil
		case "/":
			f.filterInput.Focus()
			return nil
		}
	}

	count := f.ItemCount()
	if count == 0 {
		return nil
	}
	page := max(f.viewportHeight()/f.cardHeight()/2, 1)

	switch key.String() {
	case "j", "down":
		f.SetSelectedIndex(f.cursor + 1)
	case "k", "up":
		f.SetSelectedIndex(f.cursor - 1)
	case "g", "home":
		f.SetSelectedIndex(0)
	case "G", "end":
		f.SetSelectedIndex(count - 1)
	case "ctrl+d", "pgdown":
		f.SetSelectedIndex(f.cursor + page)
	case "ctrl+u", "pgup":
		f.SetSelectedIndex(f.cursor - page)
	}
	return nil
}

// SetSelectedIndex moves the cursor, clamped, and scrolls it into view.
func (f *Feed) SetSelectedIndex(idx int) {
	last := f.ItemCount() - 1
	if last < 0 {
		f.cursor = 0
		return
	}
	f.cursor = min(max(idx, 0), last)
	f.ensureVisible()
}

// Internal methods

func (f *Feed) cardHeight() int {
	return max(f.imgH, cardTextLines) + 1
}

func (f *Feed) contentRows() int {
	return f.ItemCount() * f.cardHeight()
}

func (f *Feed) innerWidth() int {
	return max(f.width-styles.ActiveBorder.GetHorizontalFrameSize(), 0)
}

func (f *Feed) viewportHeight() int {
	h := f.height - styles.ActiveBorder.GetVerticalFrameSize() - feedChrome
	if f.filterActive {
		h--
	}
	return max(h, 0)
}

// ensureVisible scrolls so the selected card is fully in view. On the last
// card the sentinel row is brought into view as well.
func (f *Feed) ensureVisible() {
	vh := f.viewportHeight()
	if vh <= 0 {
		return
	}
	ch := f.cardHeight()
	top := f.cursor * ch
	bottom := top + ch
	if f.cursor >= f.ItemCount()-1 {
		bottom = f.contentRows() + 1
	}
	if top < f.offset {
		f.offset = top
	}
	if bottom > f.offset+vh {
		f.offset = bottom - vh
	}
	f.offset = min(f.offset, max(f.contentRows()+1-vh, 0))
	f.offset = max(f.offset, 0)
}

// layout assigns display slots, detaching filtered-out cards.
func (f *Feed) layout() {
	for _, c := range f.cards {
		c.slot = -1
	}
	for i := 0; i < f.ItemCount(); i++ {
		f.cards[f.mapIndex(i)].slot = i
	}
	f.SetSelectedIndex(f.cursor)
}

func (f *Feed) clearFilter() {
	f.filterActive = false
	f.filterQuery = ""
	f.shown = nil
	f.filterInput.SetValue("")
	f.filterInput.Blur()
	f.layout()
}

func (f *Feed) applyFilter() {
	query := f.filterInput.Value()
	f.filterQuery = query

	if query == "" {
		f.shown = nil
		f.layout()
		return
	}

	titles := make([]string, len(f.cards))
	for i, c := range f.cards {
		titles[i] = strings.ToLower(c.Achievement.Title)
	}
	matches := fuzzy.Find(strings.ToLower(query), titles)

	f.shown = make([]int, len(matches))
	for i, match := range matches {
		f.shown[i] = match.Index
	}

	// Reset cursor to first match
	f.cursor = 0
	f.offset = 0
	f.layout()
}

func (f *Feed) mapIndex(i int) int {
	if f.shown != nil && i < len(f.shown) {
		return f.shown[i]
	}
	return i
}

// Rendering

func (f *Feed) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(f.width - frameW).
		Height(f.height - frameH).
		Render(f.renderContent())
}

func (f *Feed) renderContent() string {
	width := f.innerWidth()
	vh := f.viewportHeight()

	count := f.ItemCount()
	title := styles.TitleStyle.Render("Achievements")
	counter := styles.DimStyle.Render(fmt.Sprintf("%d of %d", f.Len(), f.total))
	if f.filterQuery != "" {
		counter = styles.DimStyle.Render(fmt.Sprintf("%d matches", count))
	}
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(counter), 1)
	lines := []string{title + strings.Repeat(" ", gap) + counter}

	switch {
	case count == 0 && f.filterQuery != "":
		lines = append(lines, "", styles.DimStyle.Render("No matches"))
	case count == 0 && f.loading:
		lines = append(lines, f.renderSkeletons(width, vh)...)
	default:
		lines = append(lines, f.renderWindow(width, vh)...)
	}

	for len(lines) < vh+feedChrome {
		lines = append(lines, "")
	}
	lines = lines[:vh+feedChrome]

	if f.filterActive {
		lines = append(lines, f.filterInput.View())
	}
	return strings.Join(lines, "\n")
}

// renderWindow draws content rows [offset, offset+vh).
func (f *Feed) renderWindow(width, vh int) []string {
	ch := f.cardHeight()
	sentinelRow := f.contentRows()
	now := f.now()

	rendered := make(map[int][]string)
	lines := make([]string, 0, vh)
	for y := f.offset; y < f.offset+vh; y++ {
		if y == sentinelRow {
			lines = append(lines, f.renderSentinel(width))
			continue
		}
		if y > sentinelRow {
			lines = append(lines, "")
			continue
		}
		slot := y / ch
		card, ok := rendered[slot]
		if !ok {
			card = f.cards[f.mapIndex(slot)].render(slot == f.cursor, width, ch, f.spinnerFrame, now)
			rendered[slot] = card
		}
		lines = append(lines, card[y%ch])
	}
	return lines
}

func (f *Feed) renderSentinel(width int) string {
	switch {
	case f.loading:
		return styles.Spinner(f.spinnerFrame) + styles.DimStyle.Render(" Loading more...")
	case f.errText != "":
		return styles.ErrorStyle.Render(styles.Truncate("✗ "+f.errText+" (press any key to retry)", width))
	case !f.hasMore && f.Len() > 0:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, styles.DimStyle.Render("· end of feed ·"))
	default:
		return " "
	}
}

func (f *Feed) renderSkeletons(width, vh int) []string {
	ch := f.cardHeight()
	var lines []string
	for i := 0; len(lines) < vh; i++ {
		lines = append(lines, SkeletonCard(width, f.imgW, f.imgH, ch, f.spinnerFrame+i)...)
	}
	return lines[:vh]
}
