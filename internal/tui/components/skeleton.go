package components

import (
	"strings"

	"github.com/mmcdole/hackboard/internal/tui/styles"
)

const (
	skeletonCell  = "░"
	skeletonShine = "▒"
)

// Shimmer draws a width x height placeholder block with a diagonal
// highlight band that travels one cell per frame.
func Shimmer(width, height, frame int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	period := width + height + 4
	band := frame % period
	if band < 0 {
		band += period
	}

	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			d := x + y - band
			if d >= -1 && d <= 1 {
				b.WriteString(styles.SkeletonShineStyle.Render(skeletonShine))
			} else {
				b.WriteString(styles.SkeletonStyle.Render(skeletonCell))
			}
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Placeholder draws the same block without the moving highlight.
func Placeholder(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := styles.SkeletonStyle.Render(strings.Repeat(skeletonCell, width))
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// SkeletonBar is a single shimmer line, used for pending text.
func SkeletonBar(width, frame int) string {
	return Shimmer(width, 1, frame)
}

// SkeletonCard renders a placeholder card of the given height: a shimmer
// badge followed by bars of uneven length where the text will go.
func SkeletonCard(width, imgW, imgH, height, frame int) []string {
	badge := strings.Split(Shimmer(imgW, imgH, frame), "\n")
	textWidth := width - imgW - 3
	bars := []int{textWidth * 2 / 3, textWidth / 3, textWidth / 2}

	lines := make([]string, height)
	for i := range lines {
		left := strings.Repeat(" ", imgW)
		if i < len(badge) {
			left = badge[i]
		}
		right := ""
		if i < len(bars) && bars[i] > 0 {
			right = SkeletonBar(bars[i], frame+i)
		}
		if i >= imgH && i >= len(bars) {
			lines[i] = ""
			continue
		}
		lines[i] = " " + left + "  " + right
	}
	return lines
}
