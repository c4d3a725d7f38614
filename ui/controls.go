package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists overlay toggles and their keys.
type ControlsPanel struct {
	renderer *Renderer
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), width: width}
}

// Draw renders the panel anchored to the bottom-right corner.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, screenW, screenH int32) {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := 0
	for _, cat := range categories {
		rows += len(overlays.ByCategory(cat)) + 1
	}
	height := int32(rows+1)*lineHeight + padding*2
	x, y := screenW-c.width-padding, screenH-height-padding

	r.DrawPanel(x, y, c.width, height)
	y += padding
	for _, cat := range categories {
		y = r.DrawSectionHeader(x+padding, y, cat)
		for _, desc := range overlays.ByCategory(cat) {
			dot := rl.Color{R: 80, G: 80, B: 80, A: 255}
			if overlays.IsEnabled(desc.ID) {
				dot = r.Theme.BarFill
			}
			rl.DrawRectangle(x+padding, y+2, 8, 8, dot)
			rl.DrawText(fmt.Sprintf("[%s] %s", desc.KeyLabel, desc.Name), x+padding+14, y, r.Theme.FontSize, r.Theme.LabelColor)
			y += lineHeight
		}
	}
	rl.DrawText("[R] reset  [drop] load image", x+padding, y, r.Theme.FontSize, rl.Gray)
}
