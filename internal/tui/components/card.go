package components

import (
	"fmt"
	"time"

	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/lazyimage"
	"github.com/mmcdole/hackboard/internal/tui/styles"
	"github.com/mmcdole/hackboard/internal/visibility"
)

// Card is one achievement in the feed. It is the visibility target of its
// own badge, so the badge area follows the card through scrolling and
// filtering.
type Card struct {
	Achievement domain.Achievement
	Asset       *lazyimage.Asset

	feed *Feed
	slot int // Display position, -1 when filtered out or detached
}

// NewCard creates a card that is not yet part of a feed.
func NewCard(a domain.Achievement, asset *lazyimage.Asset) *Card {
	return &Card{Achievement: a, Asset: asset, slot: -1}
}

// Bounds implements visibility.Target. It reports the badge area in feed
// content coordinates.
func (c *Card) Bounds() (visibility.Rect, bool) {
	if c.feed == nil || c.slot < 0 {
		return visibility.Rect{}, false
	}
	return visibility.Rect{
		X:      markerWidth,
		Y:      c.slot * c.feed.cardHeight(),
		Width:  c.feed.imgW,
		Height: c.feed.imgH,
	}, true
}

// Attached reports whether the card is currently laid out in a feed.
func (c *Card) Attached() bool {
	return c.feed != nil && c.slot >= 0
}

// render draws the card into height lines.
func (c *Card) render(selected bool, width, height, frame int, now time.Time) []string {
	a := c.Achievement
	imgW, imgH := c.feed.imgW, c.feed.imgH
	badge := RenderBadge(c.Asset, a.Icon, imgW, imgH, frame)
	textWidth := width - markerWidth - imgW - 2
	if textWidth < 1 {
		textWidth = 1
	}

	titleStyle := styles.TitleStyle
	if selected {
		titleStyle = styles.SelectedTitleStyle
	}
	status := styles.LockedStyle.Render("locked")
	if a.Earned() {
		status = styles.SuccessStyle.Render("✓ earned " + relative(now, a.EarnedAt))
	}
	text := []string{
		titleStyle.Render(styles.Truncate(a.Title, textWidth)),
		styles.RarityStyle(a.Rarity).Render(styles.Truncate(a.Subtitle(), textWidth)),
		styles.DimStyle.Render(styles.Truncate(a.Description, textWidth)),
		styles.Truncate(status, textWidth),
	}

	marker := " "
	if selected {
		marker = styles.CardMarker
	}

	lines := make([]string, height)
	for i := range lines {
		left := ""
		if i < len(badge) {
			left = badge[i]
		} else {
			left = styles.Pad("", imgW)
		}
		right := ""
		if i < len(text) {
			right = text[i]
		}
		if i >= imgH && i >= len(text) {
			lines[i] = ""
			continue
		}
		m := " "
		if i < imgH {
			m = marker
		}
		lines[i] = m + left + "  " + right
	}
	return lines
}

// relative formats the age of t for card subtitles.
func relative(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return t.Format("Jan 2 15:04")
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
