// Package game is the windowed shell around the simulation: it owns raylib
// input, drawing and the per-frame call order.
package game

import (
	"log/slog"

	"github.com/pthm-cable/goldswarm/config"
	"github.com/pthm-cable/goldswarm/renderer"
	"github.com/pthm-cable/goldswarm/sim"
	"github.com/pthm-cable/goldswarm/telemetry"
	"github.com/pthm-cable/goldswarm/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	Headless       bool
	Config         *config.Config // nil = config.Cfg()
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the simulation and its presentation.
type Game struct {
	cfg      *config.Config
	sim      *sim.Simulation
	output   *telemetry.OutputManager
	headless bool

	// Fixed step for headless runs
	dt float32

	// Window dimensions
	screenWidth, screenHeight float32

	// Rendering
	background *renderer.BackgroundRenderer
	swarm      *renderer.SwarmRenderer

	// UI
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	loader    *ui.LoaderPanel
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	uiRender  *ui.Renderer
}

// NewGameWithOptions creates a game. Graphical games expect the raylib window
// to exist already.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.StatsWindowSec > 0 {
		c := *cfg
		c.Telemetry.StatsWindow = opts.StatsWindowSec
		cfg = &c
	}

	g := &Game{
		cfg:          cfg,
		headless:     opts.Headless,
		dt:           1 / float32(cfg.Physics.FrameRate),
		screenWidth:  float32(cfg.Screen.Width),
		screenHeight: float32(cfg.Screen.Height),
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.sim = sim.New(cfg, sim.Options{
		Seed:          opts.Seed,
		ViewportW:     g.screenWidth,
		ViewportH:     g.screenHeight,
		Output:        g.output,
		LogStats:      opts.LogStats,
		StatsCallback: opts.StatsCallback,
	})

	if !g.headless {
		g.background = renderer.DefaultBackground()
		g.swarm = renderer.NewSwarmRenderer(float32(cfg.Formation.GeoSize))
		g.overlays = ui.NewOverlayRegistry()
		g.hud = ui.NewHUD()
		g.loader = ui.NewLoaderPanel(g.screenWidth-330, 10, 320)
		g.perfPanel = ui.NewPerfPanel(16, 110)
		g.controls = ui.NewControlsPanel(220)
		g.uiRender = ui.NewRenderer()
	}

	slog.Info("game created",
		"seed", opts.Seed,
		"headless", opts.Headless,
		"swarm", g.sim.Store().ActiveCount(),
		"capacity", g.sim.Store().Capacity(),
	)
	return g
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// LoadImage starts forming the image at path.
func (g *Game) LoadImage(path string) {
	if g.loader != nil {
		g.loader.SetPath(path)
	}
	g.sim.LoadImageFile(path)
}

// Update processes input and advances the simulation by the frame time.
// Draw closes the frame.
func (g *Game) Update() {
	g.handleInput()
	g.sim.Update(frameTime())
}

// UpdateHeadless advances one fixed step without touching raylib.
func (g *Game) UpdateHeadless() {
	g.sim.Update(g.dt)
	g.sim.EndFrame()
}

// Tick returns the number of completed frames.
func (g *Game) Tick() int32 {
	return g.sim.Frame()
}

// Unload releases resources.
func (g *Game) Unload() {
	g.sim.Close()
	if g.swarm != nil {
		g.swarm.Unload()
	}
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
