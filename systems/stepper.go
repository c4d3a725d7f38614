// Package systems holds the per-frame swarm systems: pointer tracking,
// integration and posing.
package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/goldswarm/swarm"
)

// RegimeParams holds the spring constants for one motion regime.
type RegimeParams struct {
	Spring       float32
	SpringZ      float32
	Damping      float32
	PointerScale float32
}

// PhysicsParams holds integrator and pointer field constants.
type PhysicsParams struct {
	MaxDT     float32
	FrameRate float32 // reference cadence for acceleration
	Speed     float32 // position integration multiplier

	Radius float32 // pointer interaction radius
	Push   float32
	PushZ  float32
	Drag   float32
	Swirl  float32
	Lift   float32

	Free      RegimeParams
	Formation RegimeParams

	Workers           int // 0 = GOMAXPROCS
	ParallelThreshold int // active count at which stepping goes parallel
}

// DefaultPhysicsParams returns the stock integrator.
func DefaultPhysicsParams() PhysicsParams {
	return PhysicsParams{
		MaxDT:     0.035,
		FrameRate: 60,
		Speed:     5,
		Radius:    22,
		Push:      1.3,
		PushZ:     0.45,
		Drag:      0.75,
		Swirl:     0.28,
		Lift:      0.5,
		Free: RegimeParams{
			Spring: 0.042, SpringZ: 0.035, Damping: 0.875, PointerScale: 1.0,
		},
		Formation: RegimeParams{
			Spring: 0.075, SpringZ: 0.06, Damping: 0.80, PointerScale: 0.08,
		},
		ParallelThreshold: 8192,
	}
}

// stepFrame is the read-only input shared by all workers for one step.
type stepFrame struct {
	store  *swarm.Store
	regime RegimeParams
	ptr    mgl32.Vec3
	ptrVel mgl32.Vec3
	dt     float32
}

// Stepper advances active particles under a spring-damper model with a
// pointer repulsion field. Slots never interact, so chunks run in parallel.
type Stepper struct {
	p     PhysicsParams
	frame stepFrame
	pool  *workerPool
}

// NewStepper creates a stepper. Workers start lazily on the first large step.
func NewStepper(p PhysicsParams) *Stepper {
	s := &Stepper{p: p}
	s.pool = newWorkerPool(p.Workers, s.integrate)
	return s
}

// Params returns the physics constants.
func (s *Stepper) Params() PhysicsParams { return s.p }

// Regime returns the constants for a mode.
func (s *Stepper) Regime(m swarm.Mode) RegimeParams {
	if m == swarm.ModeFormation {
		return s.p.Formation
	}
	return s.p.Free
}

// ClampDT bounds a frame delta to [0, maxDT].
func ClampDT(dt, maxDT float32) float32 {
	return mgl32.Clamp(dt, 0, maxDT)
}

// Step advances every active slot by dt and returns the clamped dt used.
func (s *Stepper) Step(st *swarm.Store, ptr *PointerTracker, dt float32) float32 {
	dt = ClampDT(dt, s.p.MaxDT)
	n := st.ActiveCount()
	if n == 0 || dt == 0 {
		return dt
	}

	s.frame = stepFrame{
		store:  st,
		regime: s.Regime(st.Mode()),
		ptr:    ptr.Position(),
		ptrVel: ptr.Velocity(),
		dt:     dt,
	}

	if s.p.ParallelThreshold > 0 && n >= s.p.ParallelThreshold {
		s.pool.run(n)
	} else {
		s.integrate(0, n)
	}
	return dt
}

// integrate steps slots [start, end) using the current frame.
func (s *Stepper) integrate(start, end int) {
	f := &s.frame
	st := f.store
	r := f.regime
	p := &s.p

	radiusSq := p.Radius * p.Radius
	accelScale := f.dt * p.FrameRate
	move := f.dt * p.Speed
	ms := r.PointerScale

	for i := start; i < end; i++ {
		pos := st.Pos[i]
		vel := st.Vel[i]
		tgt := st.Target[i]

		ax := (tgt[0] - pos[0]) * r.Spring
		ay := (tgt[1] - pos[1]) * r.Spring
		az := (tgt[2] - pos[2]) * r.SpringZ

		dx := pos[0] - f.ptr[0]
		dy := pos[1] - f.ptr[1]
		dz := pos[2] - f.ptr[2]
		distSq := dx*dx + dy*dy + dz*dz + 0.001

		if distSq < radiusSq {
			dist := math32.Sqrt(distSq)
			falloff := 1 - dist/p.Radius
			invD := 1 / dist
			push := p.Push * falloff * ms

			// Radial repulsion
			ax += dx * invD * push
			ay += dy * invD * push
			az += dz * invD * push * p.PushZ

			// Drag along pointer velocity
			ax += f.ptrVel[0] * falloff * p.Drag * ms
			ay += f.ptrVel[1] * falloff * p.Drag * ms

			// Swirl perpendicular to it
			ax += -f.ptrVel[1] * falloff * p.Swirl * ms
			ay += f.ptrVel[0] * falloff * p.Swirl * ms

			az += falloff * p.Lift * ms
		}

		vel[0] = (vel[0] + ax*accelScale) * r.Damping
		vel[1] = (vel[1] + ay*accelScale) * r.Damping
		vel[2] = (vel[2] + az*accelScale) * r.Damping

		st.Vel[i] = vel
		st.Pos[i] = mgl32.Vec3{pos[0] + vel[0]*move, pos[1] + vel[1]*move, pos[2] + vel[2]*move}
	}
}

// Close stops the worker pool.
func (s *Stepper) Close() {
	s.pool.stop()
}
