// Package swarm holds per-particle state in a fixed-capacity struct-of-arrays
// arena. Slots are initialized once at construction and activated by sliding
// a cursor, so nothing is allocated after startup.
package swarm

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Mode is the motion regime of the store.
type Mode uint8

const (
	ModeSwarm Mode = iota
	ModeFormation
)

func (m Mode) String() string {
	switch m {
	case ModeSwarm:
		return "swarm"
	case ModeFormation:
		return "formation"
	default:
		return "unknown"
	}
}

// Params controls arena sizing and per-slot randomization.
type Params struct {
	Count             int // free-flight active count
	Capacity          int
	HomeExtent        mgl32.Vec3
	FlapSpeedMin      float32
	FlapSpeedRange    float32
	ScaleMin          float32
	ScaleRange        float32
	YawJitter         float32
	ResetVelocityKeep float32
}

// DefaultParams returns the stock swarm.
func DefaultParams() Params {
	return Params{
		Count:             4600,
		Capacity:          50000,
		HomeExtent:        mgl32.Vec3{160, 100, 56},
		FlapSpeedMin:      10,
		FlapSpeedRange:    18,
		ScaleMin:          0.24,
		ScaleRange:        0.28,
		YawJitter:         0.65,
		ResetVelocityKeep: 0.2,
	}
}

// Store is the particle arena. Only slots [0, ActiveCount()) are simulated and drawn.
type Store struct {
	Pos    []mgl32.Vec3
	Home   []mgl32.Vec3 // never mutated after New
	Target []mgl32.Vec3
	Vel    []mgl32.Vec3
	Color  []colorful.Color

	FlapPhase     []float32
	FlapSpeed     []float32
	Scale         []float32 // free-flight size
	SparkleOffset []float32
	YawOffset     []float32

	p          Params
	active     int
	mode       Mode
	foreground int
	formScale  float32
}

// New allocates the arena and initializes every slot up to capacity.
// The store starts in swarm mode with Count active particles.
func New(p Params, rng *rand.Rand) *Store {
	n := max(p.Capacity, 0)
	s := &Store{
		Pos:           make([]mgl32.Vec3, n),
		Home:          make([]mgl32.Vec3, n),
		Target:        make([]mgl32.Vec3, n),
		Vel:           make([]mgl32.Vec3, n),
		Color:         make([]colorful.Color, n),
		FlapPhase:     make([]float32, n),
		FlapSpeed:     make([]float32, n),
		Scale:         make([]float32, n),
		SparkleOffset: make([]float32, n),
		YawOffset:     make([]float32, n),
		p:             p,
		active:        min(max(p.Count, 0), n),
	}
	for i := 0; i < n; i++ {
		s.initSlot(i, rng)
	}
	return s
}

func (s *Store) initSlot(i int, rng *rand.Rand) {
	ext := s.p.HomeExtent
	home := mgl32.Vec3{
		(rng.Float32() - 0.5) * ext[0],
		(rng.Float32() - 0.5) * ext[1],
		(rng.Float32() - 0.5) * ext[2],
	}
	s.Home[i] = home
	s.Target[i] = home
	s.Pos[i] = home
	s.Vel[i] = mgl32.Vec3{}

	s.FlapPhase[i] = rng.Float32() * 2 * math.Pi
	s.FlapSpeed[i] = s.p.FlapSpeedMin + rng.Float32()*s.p.FlapSpeedRange
	s.Scale[i] = s.p.ScaleMin + rng.Float32()*s.p.ScaleRange
	s.SparkleOffset[i] = rng.Float32() * 2 * math.Pi
	s.YawOffset[i] = (rng.Float32() - 0.5) * s.p.YawJitter

	s.Color[i] = GoldRandom(rng.Float64())
}

// Capacity returns the fixed arena size.
func (s *Store) Capacity() int { return len(s.Pos) }

// ActiveCount returns the number of live slots.
func (s *Store) ActiveCount() int { return s.active }

// FreeCount returns the free-flight active count.
func (s *Store) FreeCount() int { return s.swarmCount() }

func (s *Store) swarmCount() int { return min(max(s.p.Count, 0), len(s.Pos)) }

// Mode returns the current regime.
func (s *Store) Mode() Mode { return s.mode }

// Foreground returns how many active slots carry true image colour.
func (s *Store) Foreground() int { return s.foreground }

// FormationScale returns the shared visual size used in formation mode.
func (s *Store) FormationScale() float32 { return s.formScale }

// Activate moves the cursor to n, capped to capacity, and returns the new count.
func (s *Store) Activate(n int) int {
	s.active = min(max(n, 0), len(s.Pos))
	return s.active
}

// Form installs formation targets and colours in one step. Targets beyond
// capacity are dropped. Existing velocity on the formed slots is scaled by keep.
func (s *Store) Form(targets []mgl32.Vec3, colors []colorful.Color, foreground int, scale, keep float32) int {
	n := s.Activate(min(len(targets), len(colors)))
	copy(s.Target[:n], targets)
	copy(s.Color[:n], colors)
	for i := 0; i < n; i++ {
		s.Vel[i] = s.Vel[i].Mul(keep)
	}
	s.mode = ModeFormation
	s.foreground = min(foreground, n)
	s.formScale = scale
	return n
}

// Reset returns to free flight: the cursor goes back to the swarm count,
// targets to home positions, colours to random gold.
func (s *Store) Reset(rng *rand.Rand) {
	s.mode = ModeSwarm
	s.foreground = 0
	n := s.Activate(s.swarmCount())
	keep := s.p.ResetVelocityKeep
	for i := 0; i < n; i++ {
		s.Target[i] = s.Home[i]
		s.Vel[i] = s.Vel[i].Mul(keep)
		s.Color[i] = GoldRandom(rng.Float64())
	}
}
