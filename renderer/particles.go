// Package renderer draws the swarm with raylib.
package renderer

import (
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/goldswarm/camera"
	"github.com/pthm-cable/goldswarm/sprite"
	"github.com/pthm-cable/goldswarm/systems"
)

const (
	spriteSize = 128
	glowSize   = 64

	// World size of the sparkle billboard
	sparkleSize = 14
)

// SwarmRenderer draws every pose as a tinted butterfly billboard.
type SwarmRenderer struct {
	butterfly rl.Texture2D
	glow      rl.Texture2D
	geoSize   float32

	initialized bool
}

// NewSwarmRenderer creates a renderer. geoSize is the billboard side at scale 1.
func NewSwarmRenderer(geoSize float32) *SwarmRenderer {
	return &SwarmRenderer{geoSize: geoSize}
}

// Init uploads the sprite textures (must be called after the raylib window is created).
func (r *SwarmRenderer) Init() {
	if r.initialized {
		return
	}
	r.butterfly = uploadTexture(sprite.Butterfly(spriteSize))
	r.glow = uploadTexture(sprite.Glow(glowSize))
	r.initialized = true
}

func uploadTexture(img image.Image) rl.Texture2D {
	rimg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rimg)
	rl.UnloadImage(rimg)
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	return tex
}

// Camera3D converts the simulation camera to a raylib camera.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	eye := cam.Eye()
	return rl.Camera3D{
		Position:   rl.NewVector3(eye.X(), eye.Y(), eye.Z()),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       mgl32.RadToDeg(cam.FOV),
		Projection: rl.CameraPerspective,
	}
}

// ToRaylib converts a colour to an opaque raylib colour.
func ToRaylib(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.Color{R: r, G: g, B: b, A: 255}
}

// Draw renders the swarm. colors is indexed like poses; tint multiplies every
// particle colour.
func (r *SwarmRenderer) Draw(cam *camera.Camera, poses []systems.Pose, colors []colorful.Color, tint colorful.Color, sparkle systems.Sparkle) {
	if !r.initialized {
		r.Init()
	}
	rc := Camera3D(cam)
	src := rl.Rectangle{Width: float32(r.butterfly.Width), Height: float32(r.butterfly.Height)}
	up := rl.NewVector3(0, 1, 0)

	rl.BeginMode3D(rc)
	rl.BeginBlendMode(rl.BlendAlpha)
	for i := range poses {
		p := &poses[i]
		if !cam.IsVisible(p.Position, p.Scale.X()*r.geoSize) {
			continue
		}
		roll, squash := camera.ScreenRoll(p.Orientation)
		size := rl.Vector2{X: p.Scale.X() * r.geoSize, Y: p.Scale.Y() * squash * r.geoSize}
		c := colors[i]
		col := ToRaylib(colorful.Color{R: c.R * tint.R, G: c.G * tint.G, B: c.B * tint.B})

		rl.DrawBillboardPro(rc, r.butterfly, src,
			rl.NewVector3(p.Position.X(), p.Position.Y(), p.Position.Z()),
			up, size, rl.Vector2{X: size.X / 2, Y: size.Y / 2},
			mgl32.RadToDeg(roll), col)
	}
	rl.EndBlendMode()

	// Pointer light
	rl.BeginBlendMode(rl.BlendAdditive)
	glowTint := rl.Color{R: 255, G: 214, B: 128, A: uint8(mgl32.Clamp(sparkle.Intensity, 0, 1) * 255)}
	sp := sparkle.Position
	rl.DrawBillboard(rc, r.glow, rl.NewVector3(sp.X(), sp.Y(), sp.Z()), sparkleSize, glowTint)
	rl.EndBlendMode()
	rl.EndMode3D()
}

// Unload frees resources.
func (r *SwarmRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.butterfly)
		rl.UnloadTexture(r.glow)
		r.initialized = false
	}
}
