// Package formation maps sampled image cells onto particle targets and colours.
// Planning is pure: a Plan is built off to the side and installed into the
// store in a single Apply call.
package formation

import (
	"errors"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/goldswarm/camera"
	"github.com/pthm-cable/goldswarm/sample"
	"github.com/pthm-cable/goldswarm/swarm"
	"github.com/pthm-cable/goldswarm/telemetry"
)

// ErrNoPixels is returned when there is nothing to form.
var ErrNoPixels = errors.New("no pixels found")

// Params holds the image-to-world mapping constants.
type Params struct {
	GeoSize           float32 // billboard side in world units at scale 1
	SpacingMultiplier float32
	MinScale          float32
	MaxScale          float32
	DepthJitter       float32
	VelocityKeep      float32
}

// DefaultParams returns the stock mapping.
func DefaultParams() Params {
	return Params{
		GeoSize:           1.8,
		SpacingMultiplier: 1.35,
		MinScale:          0.03,
		MaxScale:          0.55,
		DepthJitter:       1.2,
		VelocityKeep:      0.06,
	}
}

// PhaseTimer receives phase boundaries. telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Planner builds plans.
type Planner struct {
	Params Params
	Timer  PhaseTimer
}

// NewPlanner creates a planner.
func NewPlanner(p Params) *Planner {
	return &Planner{Params: p}
}

// Plan assigns the first min(len(points), capacity) points to particle slots
// and fits them to the camera's visible rectangle. The store is not touched.
func (pl *Planner) Plan(points []sample.Point, grid sample.Grid, cam *camera.Camera, capacity int, rng *rand.Rand) (*Plan, error) {
	if pl.Timer != nil {
		pl.Timer.StartPhase(telemetry.PhasePlan)
	}
	n := min(len(points), capacity)
	if n <= 0 || grid.W <= 0 || grid.H <= 0 {
		return nil, ErrNoPixels
	}

	plan := &Plan{
		p:      pl.Params,
		grid:   grid,
		cells:  make([]mgl32.Vec3, n),
		colors: make([]colorful.Color, n),
	}

	halfW, halfH := float32(grid.W)*0.5, float32(grid.H)*0.5
	for i, pt := range points[:n] {
		// Centred and flipped so +Y is up
		plan.cells[i] = mgl32.Vec3{
			float32(pt.X) - halfW,
			halfH - float32(pt.Y),
			(rng.Float32() - 0.5) * pl.Params.DepthJitter,
		}
		if pt.Foreground {
			plan.colors[i] = swarm.FromRGB8(pt.R, pt.G, pt.B)
			plan.foreground++
		} else {
			plan.colors[i] = swarm.GoldFromLuma(pt.Luma709())
		}
	}

	plan.fit(cam)
	return plan, nil
}

// Plan is a complete formation ready to install.
type Plan struct {
	p          Params
	grid       sample.Grid
	cells      []mgl32.Vec3 // centred grid coordinates, z is depth jitter
	colors     []colorful.Color
	foreground int

	// Viewport dependent
	targets        []mgl32.Vec3
	scale          float32
	worldW, worldH float32
}

// fit places the grid inside the visible rectangle with contain semantics.
func (p *Plan) fit(cam *camera.Camera) {
	vw, vh := cam.VisibleSize()
	imgAspect := float32(p.grid.W) / float32(p.grid.H)
	if imgAspect > vw/vh {
		p.worldW = vw
		p.worldH = vw / imgAspect
	} else {
		p.worldH = vh
		p.worldW = vh * imgAspect
	}
	sf := p.worldW / float32(p.grid.W)

	spacing := math32.Sqrt(p.worldW * p.worldH / float32(len(p.cells)))
	p.scale = mgl32.Clamp(spacing*p.p.SpacingMultiplier/p.p.GeoSize, p.p.MinScale, p.p.MaxScale)

	p.targets = make([]mgl32.Vec3, len(p.cells))
	for i, c := range p.cells {
		p.targets[i] = mgl32.Vec3{c[0] * sf, c[1] * sf, c[2]}
	}
}

// Refit returns a copy of the plan fitted to a new viewport. Slot assignment,
// colours and depth jitter are kept so only x and y rescale.
func (p *Plan) Refit(cam *camera.Camera) *Plan {
	np := &Plan{
		p:          p.p,
		grid:       p.grid,
		cells:      p.cells,
		colors:     p.colors,
		foreground: p.foreground,
	}
	np.fit(cam)
	return np
}

// Apply installs targets, colours and the active count into the store in one step.
func (p *Plan) Apply(s *swarm.Store) int {
	return s.Form(p.targets, p.colors, p.foreground, p.scale, p.p.VelocityKeep)
}

// Count returns the number of particles the plan forms.
func (p *Plan) Count() int { return len(p.targets) }

// Foreground returns how many particles keep their true image colour.
func (p *Plan) Foreground() int { return p.foreground }

// Scale returns the shared visual size.
func (p *Plan) Scale() float32 { return p.scale }

// WorldSize returns the fitted image rectangle in world units.
func (p *Plan) WorldSize() (w, h float32) { return p.worldW, p.worldH }

// Grid returns the sampling grid the plan was built from.
func (p *Plan) Grid() sample.Grid { return p.grid }

// Report summarizes the plan for status text and logs.
func (p *Plan) Report() Report {
	return Report{
		Formed:  len(p.targets),
		Colored: p.foreground,
		GridW:   p.grid.W,
		GridH:   p.grid.H,
		Scale:   p.scale,
		WorldW:  p.worldW,
		WorldH:  p.worldH,
	}
}
