package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/goldswarm/renderer"
	"github.com/pthm-cable/goldswarm/swarm"
	"github.com/pthm-cable/goldswarm/telemetry"
	"github.com/pthm-cable/goldswarm/ui"
)

// Draw renders the frame and closes it in the simulation.
func (g *Game) Draw() {
	s := g.sim
	st := s.Store()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.background.Draw()

	sparkle := s.Sparkle()
	if !g.overlays.IsEnabled(ui.OverlaySparkle) {
		sparkle.Intensity = 0
	}
	g.swarm.Draw(s.Camera(), s.Poses(), st.Color, swarm.MaterialTint(st.Mode()), sparkle)

	g.drawUI()
	rl.EndDrawing()

	s.Perf().RecordFrame()
	s.EndFrame()
}

func (g *Game) drawUI() {
	s := g.sim
	st := s.Store()
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	if g.overlays.IsEnabled(ui.OverlayLoader) {
		switch g.loader.Draw(s.Status()) {
		case ui.LoaderLoad:
			s.LoadImageFile(g.loader.Path())
		case ui.LoaderReset:
			s.Reset()
		}
	}

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(ui.HUDData{
			Title:      "Golden Swarm",
			Mode:       st.Mode().String(),
			Active:     st.ActiveCount(),
			Capacity:   st.Capacity(),
			Foreground: st.Foreground(),
			Frame:      s.Frame(),
			FPS:        rl.GetFPS(),
			Status:     s.Status(),
			Pending:    s.Pending(),
		})
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(s.Perf().Stats(), telemetry.FramePhases)
	}

	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.uiRender.DrawPanelDescriptor(w-250, 140, ui.SwarmPanel, ui.SwarmInfo{
			Mode:           st.Mode().String(),
			Active:         st.ActiveCount(),
			Capacity:       st.Capacity(),
			Foreground:     st.Foreground(),
			FormationScale: st.FormationScale(),
			VisualScale:    s.VisualScale(),
			Blend:          s.SizeBlend(),
			KineticEnergy:  s.KineticEnergy(),
			PointerSpeed:   s.Pointer().Speed(),
			Tint:           renderer.ToRaylib(swarm.MaterialTint(st.Mode())),
		})
	}

	g.controls.Draw(g.overlays, w, h)
}
