package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer fills the viewport with a vertical night gradient.
type BackgroundRenderer struct {
	top, bottom rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(top, bottom rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{top: top, bottom: bottom}
}

// DefaultBackground returns the deep blue backdrop the gold reads against.
func DefaultBackground() *BackgroundRenderer {
	return NewBackgroundRenderer(
		rl.Color{R: 8, G: 10, B: 22, A: 255},
		rl.Color{R: 2, G: 3, B: 8, A: 255},
	)
}

// Draw renders the gradient over the current screen size.
func (b *BackgroundRenderer) Draw() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	rl.DrawRectangleGradientV(0, 0, w, h, b.top, b.bottom)
}
