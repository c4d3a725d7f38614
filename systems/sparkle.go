package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// sparkleHeight is the depth the point light hovers at in front of the swarm.
const sparkleHeight = 36

// Sparkle is the point light that follows the pointer.
type Sparkle struct {
	Position  mgl32.Vec3
	Intensity float32
}

// SparkleAt returns the light for the current pointer at elapsed time t.
func SparkleAt(ptr *PointerTracker, t float32) Sparkle {
	p := ptr.Position()
	return Sparkle{
		Position:  mgl32.Vec3{p[0], p[1], sparkleHeight},
		Intensity: 0.82 + math32.Sin(t*2)*0.18,
	}
}
