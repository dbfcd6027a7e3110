package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/lazyimage"
	"github.com/mmcdole/hackboard/internal/tui/styles"
)

// RenderBadge draws a lazy badge into exactly height lines of width cells.
// A loaded asset shows its frame, an errored one shows the icon glyph and
// its alt text, and anything else shows the shimmer placeholder.
func RenderBadge(asset *lazyimage.Asset, icon domain.BadgeIcon, width, height, frame int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	var lines []string
	switch {
	case asset == nil:
		lines = strings.Split(Placeholder(width, height), "\n")
	case asset.State() == lazyimage.Loaded:
		lines = strings.Split(asset.Frame(), "\n")
	case asset.State() == lazyimage.Errored:
		lines = errorBadge(icon, asset.Alt(), width, height)
	case asset.State() == lazyimage.Loading:
		lines = strings.Split(Shimmer(width, height, frame), "\n")
	default:
		// Not yet requested
		lines = strings.Split(Placeholder(width, height), "\n")
	}
	return fit(lines, width, height)
}

func errorBadge(icon domain.BadgeIcon, alt string, width, height int) []string {
	spec := icon.Spec()
	glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(spec.Color)).Render(spec.Glyph)

	lines := make([]string, height)
	mid := (height - 1) / 2
	lines[mid] = lipgloss.PlaceHorizontal(width, lipgloss.Center, glyph+styles.ErrorStyle.Render("!"))
	if mid+1 < height {
		lines[mid+1] = styles.DimStyle.Render(styles.Truncate(alt, width))
	}
	return lines
}

// fit pads or trims lines to a width x height block.
func fit(lines []string, width, height int) []string {
	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = styles.Pad(lines[i], width)
		} else {
			out[i] = strings.Repeat(" ", width)
		}
	}
	return out
}
