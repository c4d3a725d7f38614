package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// LoaderAction is what the user asked for this frame.
type LoaderAction int

const (
	LoaderNone LoaderAction = iota
	LoaderLoad
	LoaderReset
)

// LoaderPanel is the image picker: a path box, Load and Reset buttons and the
// status line.
type LoaderPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32

	path    string
	editing bool
}

// NewLoaderPanel creates a loader panel.
func NewLoaderPanel(x, y, width float32) *LoaderPanel {
	return &LoaderPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Path returns the current path text.
func (l *LoaderPanel) Path() string { return l.path }

// SetPath replaces the path text, e.g. after a file drop.
func (l *LoaderPanel) SetPath(p string) { l.path = p }

// Editing reports whether the text box has keyboard focus.
func (l *LoaderPanel) Editing() bool { return l.editing }

// SetPosition moves the panel.
func (l *LoaderPanel) SetPosition(x, y float32) {
	l.x = x
	l.y = y
}

// Height returns the panel height.
func (l *LoaderPanel) Height() float32 { return 96 }

// Draw renders the panel and returns the action triggered this frame.
func (l *LoaderPanel) Draw(status string) LoaderAction {
	pad := float32(l.renderer.Theme.Padding)
	l.renderer.DrawPanel(int32(l.x), int32(l.y), int32(l.width), int32(l.Height()))

	inner := l.width - pad*2
	row := l.y + pad
	gui.Label(rl.Rectangle{X: l.x + pad, Y: row, Width: inner, Height: 16}, "Image path")
	row += 20

	if gui.TextBox(rl.Rectangle{X: l.x + pad, Y: row, Width: inner, Height: 26}, &l.path, 512, l.editing) {
		l.editing = !l.editing
	}
	row += 32

	action := LoaderNone
	btnW := (inner - pad) / 2
	if gui.Button(rl.Rectangle{X: l.x + pad, Y: row, Width: btnW, Height: 24}, "Load") && l.path != "" {
		l.editing = false
		action = LoaderLoad
	}
	if gui.Button(rl.Rectangle{X: l.x + pad*2 + btnW, Y: row, Width: btnW, Height: 24}, "Reset") {
		l.editing = false
		action = LoaderReset
	}

	rl.DrawText(status, int32(l.x+pad), int32(l.y+l.Height()+6), l.renderer.Theme.FontSize+2, l.renderer.Theme.StatusColor)
	return action
}
