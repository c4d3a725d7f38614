package systems

import "github.com/go-gl/mathgl/mgl32"

// farAway parks the pointer outside every interaction radius until it first moves.
var farAway = mgl32.Vec3{9999, 9999, 0}

// PointerParams holds pointer velocity smoothing.
type PointerParams struct {
	VelocityGain float32
	MaxSpeed     float32
	Decay        float32 // per-frame multiplier
}

// DefaultPointerParams returns the stock smoothing.
func DefaultPointerParams() PointerParams {
	return PointerParams{VelocityGain: 0.62, MaxSpeed: 4.5, Decay: 0.91}
}

// PointerTracker turns pointer events into a world position and a smoothed,
// capped velocity.
type PointerTracker struct {
	p    PointerParams
	pos  mgl32.Vec3
	prev mgl32.Vec3
	vel  mgl32.Vec3
}

// NewPointerTracker creates a tracker parked far from the swarm.
func NewPointerTracker(p PointerParams) *PointerTracker {
	return &PointerTracker{p: p, pos: farAway, prev: farAway}
}

// Move records a new pointer position on the z=0 plane.
func (t *PointerTracker) Move(world mgl32.Vec3) {
	v := world.Sub(t.prev).Mul(t.p.VelocityGain)
	if l := v.Len(); l > t.p.MaxSpeed {
		v = v.Mul(t.p.MaxSpeed / l)
	}
	t.vel = v
	t.prev = world
	t.pos = world
}

// Decay damps the velocity. Called once per frame whether or not the pointer moved.
func (t *PointerTracker) Decay() {
	t.vel = t.vel.Mul(t.p.Decay)
}

// Position returns the current world position.
func (t *PointerTracker) Position() mgl32.Vec3 { return t.pos }

// Velocity returns the smoothed velocity.
func (t *PointerTracker) Velocity() mgl32.Vec3 { return t.vel }

// Speed returns the velocity magnitude.
func (t *PointerTracker) Speed() float32 { return t.vel.Len() }
