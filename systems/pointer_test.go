package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPointerStartsFarAway(t *testing.T) {
	pt := NewPointerTracker(DefaultPointerParams())
	assert.Equal(t, farAway, pt.Position())
	assert.Zero(t, pt.Speed())
}

func TestPointerVelocityGainAndCap(t *testing.T) {
	pt := NewPointerTracker(DefaultPointerParams())

	// First move from the parked position is capped
	pt.Move(mgl32.Vec3{0, 0, 0})
	assert.InDelta(t, 4.5, pt.Speed(), 1e-4)

	pt.Move(mgl32.Vec3{2, 0, 0})
	assert.InDelta(t, 1.24, pt.Velocity().X(), 1e-5)
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, pt.Position())

	pt.Move(mgl32.Vec3{2, 100, 0})
	assert.InDelta(t, 4.5, pt.Speed(), 1e-4)
	assert.InDelta(t, 0, pt.Velocity().X(), 1e-6)
}

func TestPointerDecay(t *testing.T) {
	pt := NewPointerTracker(DefaultPointerParams())
	pt.Move(mgl32.Vec3{0, 0, 0})
	pt.Move(mgl32.Vec3{1, 0, 0})
	before := pt.Speed()

	pt.Decay()
	assert.InDelta(t, before*0.91, pt.Speed(), 1e-6)
	for i := 0; i < 200; i++ {
		pt.Decay()
	}
	assert.Less(t, pt.Speed(), float32(1e-6))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, pt.Position(), "decay leaves position alone")
}
