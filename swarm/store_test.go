package swarm

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallParams() Params {
	p := DefaultParams()
	p.Count = 50
	p.Capacity = 200
	return p
}

func TestNewInitializesEverySlot(t *testing.T) {
	p := smallParams()
	s := New(p, rand.New(rand.NewSource(1)))

	require.Equal(t, 200, s.Capacity())
	assert.Equal(t, 50, s.ActiveCount())
	assert.Equal(t, 50, s.FreeCount())
	assert.Equal(t, ModeSwarm, s.Mode())

	half := p.HomeExtent.Mul(0.5)
	for i := 0; i < s.Capacity(); i++ {
		h := s.Home[i]
		for a := 0; a < 3; a++ {
			require.LessOrEqual(t, h[a], half[a], "slot %d axis %d", i, a)
			require.GreaterOrEqual(t, h[a], -half[a], "slot %d axis %d", i, a)
		}
		require.Equal(t, h, s.Pos[i])
		require.Equal(t, h, s.Target[i])
		require.Equal(t, mgl32.Vec3{}, s.Vel[i])

		require.GreaterOrEqual(t, s.FlapSpeed[i], p.FlapSpeedMin)
		require.LessOrEqual(t, s.FlapSpeed[i], p.FlapSpeedMin+p.FlapSpeedRange)
		require.GreaterOrEqual(t, s.Scale[i], p.ScaleMin)
		require.LessOrEqual(t, s.Scale[i], p.ScaleMin+p.ScaleRange)
		require.LessOrEqual(t, s.YawOffset[i], p.YawJitter/2)
		require.NotEqual(t, colorful.Color{}, s.Color[i])
	}
}

func TestCountClampedToCapacity(t *testing.T) {
	p := smallParams()
	p.Count = 500
	s := New(p, rand.New(rand.NewSource(1)))
	assert.Equal(t, 200, s.ActiveCount())
	assert.Equal(t, 200, s.FreeCount())
}

func TestActivateCapsAtCapacity(t *testing.T) {
	s := New(smallParams(), rand.New(rand.NewSource(2)))
	assert.Equal(t, 200, s.Activate(1_000_000))
	assert.Equal(t, 0, s.Activate(-3))
	assert.Equal(t, 120, s.Activate(120))
	assert.Equal(t, 120, s.ActiveCount())
}

func TestFormInstallsTargetsAndColors(t *testing.T) {
	s := New(smallParams(), rand.New(rand.NewSource(3)))
	for i := range s.Vel {
		s.Vel[i] = mgl32.Vec3{10, -10, 5}
	}

	targets := make([]mgl32.Vec3, 80)
	colors := make([]colorful.Color, 80)
	for i := range targets {
		targets[i] = mgl32.Vec3{float32(i), 1, 0}
		colors[i] = colorful.Color{R: 1}
	}

	n := s.Form(targets, colors, 30, 0.4, 0.5)
	assert.Equal(t, 80, n)
	assert.Equal(t, 80, s.ActiveCount())
	assert.Equal(t, ModeFormation, s.Mode())
	assert.Equal(t, 30, s.Foreground())
	assert.Equal(t, float32(0.4), s.FormationScale())
	assert.Equal(t, targets, s.Target[:80])
	assert.Equal(t, colors, s.Color[:80])
	assert.Equal(t, mgl32.Vec3{5, -5, 2.5}, s.Vel[0])
	// Untouched beyond the active range
	assert.Equal(t, mgl32.Vec3{10, -10, 5}, s.Vel[80])
	assert.Equal(t, s.Home[80], s.Target[80])
}

func TestFormDropsTargetsBeyondCapacity(t *testing.T) {
	s := New(smallParams(), rand.New(rand.NewSource(4)))
	targets := make([]mgl32.Vec3, 10_000)
	colors := make([]colorful.Color, 10_000)

	n := s.Form(targets, colors, 10_000, 0.1, 0.06)
	assert.Equal(t, s.Capacity(), n)
	assert.Equal(t, s.Capacity(), s.ActiveCount())
	assert.Equal(t, s.Capacity(), s.Foreground())
}

func TestResetRestoresTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := New(smallParams(), rng)

	targets := make([]mgl32.Vec3, 150)
	colors := make([]colorful.Color, 150)
	for i := range targets {
		targets[i] = mgl32.Vec3{1, 2, 3}
	}
	s.Form(targets, colors, 100, 0.2, 0.06)
	for i := range s.Vel {
		s.Vel[i] = mgl32.Vec3{1, 1, 1}
	}

	s.Reset(rng)
	assert.Equal(t, ModeSwarm, s.Mode())
	assert.Equal(t, s.FreeCount(), s.ActiveCount())
	assert.Zero(t, s.Foreground())
	for i := 0; i < s.ActiveCount(); i++ {
		require.Equal(t, s.Home[i], s.Target[i], "slot %d", i)
		require.InDelta(t, 0.2, s.Vel[i][0], 1e-6)
		h, _, _ := s.Color[i].Hsl()
		require.InDelta(t, 45.9, h, 4.6, "slot %d hue", i)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "swarm", ModeSwarm.String())
	assert.Equal(t, "formation", ModeFormation.String())
	assert.Equal(t, "unknown", Mode(9).String())
}
