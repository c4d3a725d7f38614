package game

import rl "github.com/gen2brain/raylib-go/raylib"

func frameTime() float32 {
	return rl.GetFrameTime()
}

// handleInput processes keyboard, mouse and file-drop input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Keys go to the text box while it has focus
	if !g.loader.Editing() {
		for _, key := range g.overlays.Keys() {
			if rl.IsKeyPressed(key) {
				g.overlays.HandleKeyPress(key)
			}
		}
		if rl.IsKeyPressed(rl.KeyR) {
			g.sim.Reset()
		}
	}

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		if len(files) > 0 {
			g.LoadImage(files[0])
		}
		rl.UnloadDroppedFiles()
	}

	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		m := rl.GetMousePosition()
		g.sim.PointerMoved(m.X, m.Y)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.sim.Resize(w, h)
	g.loader.SetPosition(w-330, 10)
}
