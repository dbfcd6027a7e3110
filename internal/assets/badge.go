package assets

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mmcdole/hackboard/internal/domain"
)

// badgeSize is the source resolution of generated badges in pixels.
const badgeSize = 16

// drawBadge paints a round medal for icon. seed nudges the hue and the
// number of rays so neighbouring badges look different.
func drawBadge(icon domain.BadgeIcon, seed int) image.Image {
	base, err := colorful.Hex(icon.Spec().Color)
	if err != nil {
		base = colorful.Color{R: 0.9, G: 0.6, B: 0.05}
	}
	h, c, l := base.Hcl()
	base = colorful.Hcl(math.Mod(h+float64(seed%5)*6, 360), c, l).Clamped()

	ring := base.BlendLab(colorful.Color{}, 0.45).Clamped()
	shine := base.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.55).Clamped()
	rays := 3 + seed%4

	img := image.NewRGBA(image.Rect(0, 0, badgeSize, badgeSize))
	center := float64(badgeSize-1) / 2
	outer := center
	inner := center - 2

	for y := 0; y < badgeSize; y++ {
		for x := 0; x < badgeSize; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			d := math.Hypot(dx, dy)

			var px colorful.Color
			switch {
			case d > outer:
				continue // Transparent
			case d > inner:
				px = ring
			default:
				angle := math.Atan2(dy, dx)
				ray := math.Cos(angle*float64(rays)) > 0.6 && d < inner-1
				if ray || (dx < 0 && dy < 0 && d < inner/2) {
					px = shine
				} else {
					px = base
				}
			}
			r, g, b := px.RGB255()
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return img
}
