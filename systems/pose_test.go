package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/goldswarm/camera"
)

func TestPoseFormulas(t *testing.T) {
	st := newStore(1, 1, 20)
	st.FlapSpeed[0] = 12
	st.FlapPhase[0] = 0.3
	st.SparkleOffset[0] = 1.1
	st.YawOffset[0] = 0.2
	st.Scale[0] = 0.4
	st.Vel[0] = mgl32.Vec3{0, 1, 0}

	ps := NewPoser(1, DefaultVisualParams())
	const tm = 2.0
	poses := ps.Update(st, tm, 0)
	require.Len(t, poses, 1)
	p := poses[0]

	flap := 0.36 + 0.64*math.Abs(math.Sin(tm*12+0.3))
	flicker := 0.87 + 0.22*math.Sin(tm*(5.5+12*0.04)+1.1)
	yaw := math.Pi/2 + 0.2 + math.Sin(tm*2.5+0.3)*0.18
	tilt := math.Sin(tm*4.5+1.1) * 0.07

	assert.InDelta(t, yaw, p.Yaw, 1e-4)
	assert.InDelta(t, tilt, p.Tilt, 1e-5)
	assert.InDelta(t, 0.4*(0.55+flap*0.80), p.Scale.X(), 1e-4)
	assert.InDelta(t, 0.4*(0.80+flap*0.18)*flicker, p.Scale.Y(), 1e-4)
	assert.InDelta(t, 0.4, p.Scale.Z(), 1e-6)
	assert.Equal(t, st.Pos[0], p.Position)

	roll, _ := camera.ScreenRoll(p.Orientation)
	assert.InDelta(t, yaw, roll, 1e-4)
}

func TestScaleBlendsToFormationSize(t *testing.T) {
	st := newStore(3, 3, 21)
	ps := NewPoser(3, DefaultVisualParams())

	ps.Update(st, 0, 1.0/60)
	assert.Zero(t, ps.Blend())
	assert.Zero(t, ps.VisualScale(st))

	st.Form(make([]mgl32.Vec3, 3), make([]colorful.Color, 3), 0, 0.1, 0)

	ps.Update(st, 0, 1.0/60)
	early := ps.Blend()
	assert.Greater(t, early, 0.0)
	assert.Less(t, early, 0.5, "blend should not jump in one frame")

	for i := 0; i < 240; i++ {
		ps.Update(st, float32(i)/60, 1.0/60)
	}
	assert.InDelta(t, 1.0, ps.Blend(), 1e-3)
	assert.InDelta(t, 0.1, ps.VisualScale(st), 1e-3)
	// All slots now share the formation size
	for _, p := range ps.Poses(st) {
		require.InDelta(t, 0.1, p.Scale.Z(), 1e-3)
	}
}

func TestSparkleFollowsPointer(t *testing.T) {
	ptr := NewPointerTracker(DefaultPointerParams())
	ptr.Move(mgl32.Vec3{3, -4, 0})

	sp := SparkleAt(ptr, 0)
	assert.Equal(t, mgl32.Vec3{3, -4, 36}, sp.Position)
	assert.InDelta(t, 0.82, sp.Intensity, 1e-6)

	sp = SparkleAt(ptr, math.Pi/4)
	assert.InDelta(t, 1.0, sp.Intensity, 1e-5)
}
