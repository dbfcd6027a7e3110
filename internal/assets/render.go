package assets

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Render draws img as width x height terminal cells. Each cell packs two
// vertical pixels using the upper half block, so the image is sampled at
// width x 2*height with nearest-neighbour scaling.
func Render(img image.Image, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return strings.Repeat(strings.Repeat(" ", width)+"\n", height-1) + strings.Repeat(" ", width)
	}

	sample := func(x, y int) (string, bool) {
		sx := b.Min.X + x*b.Dx()/width
		sy := b.Min.Y + y*b.Dy()/(height*2)
		return hexOf(img.At(sx, sy))
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < width; col++ {
			top, topOK := sample(col, row*2)
			bottom, bottomOK := sample(col, row*2+1)
			sb.WriteString(cell(top, topOK, bottom, bottomOK))
		}
	}
	return sb.String()
}

func cell(top string, topOK bool, bottom string, bottomOK bool) string {
	switch {
	case topOK && bottomOK:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(top)).
			Background(lipgloss.Color(bottom)).
			Render("▀")
	case topOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(top)).Render("▀")
	case bottomOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(bottom)).Render("▄")
	default:
		return " "
	}
}

// hexOf returns the color as #rrggbb, or false for mostly transparent pixels.
func hexOf(c color.Color) (string, bool) {
	_, _, _, a := c.RGBA()
	if a < 0x8000 {
		return "", false
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return cf.Hex(), true
}
