package swarm

import "github.com/lucasb-eyer/go-colorful"

// GoldMaterial is the material tint applied over particle colours in swarm mode.
var GoldMaterial = FromRGB8(0xff, 0xca, 0x55)

// GoldRandom returns a warm gold for u in [0, 1).
func GoldRandom(u float64) colorful.Color {
	return colorful.Hsl((0.115+u*0.025)*360, 0.88, 0.38+u*0.20)
}

// GoldFromLuma returns a gold whose lightness follows luma in [0, 1].
func GoldFromLuma(luma float64) colorful.Color {
	return colorful.Hsl((0.12+luma*0.018)*360, 0.90, 0.32+luma*0.30)
}

// FromRGB8 converts 8-bit sRGB channels.
func FromRGB8(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// MaterialTint returns the tint the renderer multiplies into every particle.
// Formation renders untinted so image colours survive.
func MaterialTint(m Mode) colorful.Color {
	if m == ModeFormation {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return GoldMaterial
}
