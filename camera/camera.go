// Package camera provides the fixed perspective camera looking down -Z at the
// swarm plane.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera sits on the +Z axis at Distance and looks at the origin.
type Camera struct {
	// Vertical field of view in radians
	FOV float32

	// Distance from the z=0 plane
	Distance float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Clip planes
	Near, Far float32
}

// New creates a camera from a vertical fov in degrees.
func New(fovDeg, distance, viewportW, viewportH float32) *Camera {
	return &Camera{
		FOV:       mgl32.DegToRad(fovDeg),
		Distance:  distance,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Near:      0.1,
		Far:       1000,
	}
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float32 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Eye returns the camera position.
func (c *Camera) Eye() mgl32.Vec3 {
	return mgl32.Vec3{0, 0, c.Distance}
}

// VisibleSize returns the world-space width and height visible on the z=0 plane.
func (c *Camera) VisibleSize() (w, h float32) {
	return c.VisibleSizeAt(0)
}

// VisibleSizeAt returns the visible extent on the plane at depth z.
func (c *Camera) VisibleSizeAt(z float32) (w, h float32) {
	h = 2 * math32.Tan(c.FOV/2) * (c.Distance - z)
	return h * c.Aspect(), h
}

// ScreenToWorld casts a ray through a screen pixel and returns where it hits z=0.
func (c *Camera) ScreenToWorld(sx, sy float32) mgl32.Vec3 {
	vw, vh := c.VisibleSize()
	nx := sx/c.ViewportW*2 - 1
	ny := 1 - sy/c.ViewportH*2
	return mgl32.Vec3{nx * vw / 2, ny * vh / 2, 0}
}

// IsVisible returns true if a sphere at p with given radius could be visible
// on screen (conservative check for culling).
func (c *Camera) IsVisible(p mgl32.Vec3, radius float32) bool {
	if c.Distance-p.Z() <= c.Near {
		return false
	}
	vw, vh := c.VisibleSizeAt(p.Z())
	return math32.Abs(p.X()) <= vw/2+radius && math32.Abs(p.Y()) <= vh/2+radius
}

// Resize updates viewport dimensions. Returns false if nothing changed.
func (c *Camera) Resize(viewportW, viewportH float32) bool {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return false
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	return true
}

// Billboard returns a camera-facing orientation rolled by yaw about the view
// axis and then tilted by tilt about the local X axis.
func Billboard(yaw, tilt float32) mgl32.Quat {
	return mgl32.QuatRotate(yaw, mgl32.Vec3{0, 0, 1}).Mul(mgl32.QuatRotate(tilt, mgl32.Vec3{1, 0, 0}))
}

// ScreenRoll returns the on-screen roll angle in radians and the vertical
// foreshortening factor of an orientation seen along -Z.
func ScreenRoll(q mgl32.Quat) (roll, squash float32) {
	right := q.Rotate(mgl32.Vec3{1, 0, 0})
	up := q.Rotate(mgl32.Vec3{0, 1, 0})
	return math32.Atan2(right.Y(), right.X()), math32.Hypot(up.X(), up.Y())
}
