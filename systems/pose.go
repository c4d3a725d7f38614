package systems

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/goldswarm/camera"
	"github.com/pthm-cable/goldswarm/swarm"
)

// Pose is the per-particle transform handed to the renderer.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Scale       mgl32.Vec3 // x = wing span, y = body length
	Yaw, Tilt   float32
}

// VisualParams holds cosmetic constants.
type VisualParams struct {
	ScaleBlendFrequency float64 // angular frequency of the size blend spring
	ScaleBlendDamping   float64
}

// DefaultVisualParams returns the stock blend.
func DefaultVisualParams() VisualParams {
	return VisualParams{ScaleBlendFrequency: 6, ScaleBlendDamping: 1}
}

// Poser computes wing flap, flicker and orientation. Nothing here feeds back
// into physics.
type Poser struct {
	p     VisualParams
	poses []Pose

	// Blend weight between per-slot free-flight size (0) and the shared formation size (1)
	blend    float64
	blendVel float64
}

// NewPoser allocates pose storage for the whole arena.
func NewPoser(capacity int, p VisualParams) *Poser {
	return &Poser{p: p, poses: make([]Pose, capacity)}
}

// Blend returns the current size blend weight in [0, 1].
func (ps *Poser) Blend() float64 { return ps.blend }

// VisualScale returns the shared size currently applied in formation, or 0 in free flight.
func (ps *Poser) VisualScale(st *swarm.Store) float32 {
	return float32(ps.blend) * st.FormationScale()
}

// Update poses every active slot at elapsed time t and returns the poses.
func (ps *Poser) Update(st *swarm.Store, t, dt float32) []Pose {
	target := 0.0
	if st.Mode() == swarm.ModeFormation {
		target = 1
	}
	if dt > 0 {
		spring := harmonica.NewSpring(float64(dt), ps.p.ScaleBlendFrequency, ps.p.ScaleBlendDamping)
		ps.blend, ps.blendVel = spring.Update(ps.blend, ps.blendVel, target)
	}
	w := mgl32.Clamp(float32(ps.blend), 0, 1)
	shared := st.FormationScale()

	n := st.ActiveCount()
	for i := 0; i < n; i++ {
		fs := st.FlapSpeed[i]
		fp := st.FlapPhase[i]
		so := st.SparkleOffset[i]
		vel := st.Vel[i]

		flap := 0.36 + 0.64*math32.Abs(math32.Sin(t*fs+fp))
		flicker := 0.87 + 0.22*math32.Sin(t*(5.5+fs*0.04)+so)
		yaw := math32.Atan2(vel[1], vel[0]) + st.YawOffset[i] + math32.Sin(t*2.5+fp)*0.18
		tilt := math32.Sin(t*4.5+so) * 0.07

		sz := st.Scale[i] + (shared-st.Scale[i])*w

		ps.poses[i] = Pose{
			Position:    st.Pos[i],
			Orientation: camera.Billboard(yaw, tilt),
			Scale:       mgl32.Vec3{sz * (0.55 + flap*0.80), sz * (0.80 + flap*0.18) * flicker, sz},
			Yaw:         yaw,
			Tilt:        tilt,
		}
	}
	return ps.poses[:n]
}

// Poses returns the poses from the last Update.
func (ps *Poser) Poses(st *swarm.Store) []Pose {
	return ps.poses[:st.ActiveCount()]
}
