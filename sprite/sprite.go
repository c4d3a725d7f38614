// Package sprite rasterizes the white alpha masks that the renderer tints per
// particle. Everything here is pure Go so the shapes can be tested headless.
package sprite

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// wing is an ellipse rotated about its own centre, in unit sprite space.
type wing struct {
	cx, cy float32
	rx, ry float32
	angle  float32
}

// Right-hand wings; the left side is mirrored.
var wings = []wing{
	{cx: 0.42, cy: -0.22, rx: 0.50, ry: 0.38, angle: -0.45}, // forewing
	{cx: 0.32, cy: 0.34, rx: 0.34, ry: 0.30, angle: 0.55},   // hindwing
}

const (
	bodyHalfWidth  = 0.07
	bodyHalfLength = 0.62
	edgeSoftness   = 0.08
)

func smoothstep(e0, e1, x float32) float32 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func clamp(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(x, hi))
}

// ellipseDist returns the normalized distance from (u, v) to the wing centre;
// values below 1 are inside.
func (w wing) ellipseDist(u, v float32) float32 {
	s, c := math32.Sincos(w.angle)
	du, dv := u-w.cx, v-w.cy
	x := du*c + dv*s
	y := -du*s + dv*c
	return math32.Sqrt(x*x/(w.rx*w.rx) + y*y/(w.ry*w.ry))
}

// coverage returns opacity and shade of the butterfly at unit coords in [-1, 1].
func coverage(u, v float32) (alpha, shade float32) {
	au := math32.Abs(u)
	for _, w := range wings {
		d := w.ellipseDist(au, v)
		a := 1 - smoothstep(1-edgeSoftness, 1, d)
		if a > alpha {
			alpha = a
			// Darker toward the wing root, lighter at the rim
			shade = 0.72 + 0.28*clamp(d, 0, 1)
		}
	}

	// Body capsule
	bv := math32.Max(math32.Abs(v)-bodyHalfLength+bodyHalfWidth, 0)
	bd := math32.Hypot(au, bv) / bodyHalfWidth
	if b := 1 - smoothstep(1-edgeSoftness*2, 1, bd); b > alpha*0.9 {
		alpha = math32.Max(alpha, b)
		shade = 0.55
	}
	return alpha, shade
}

// Butterfly returns a size x size white butterfly mask with soft edges,
// wings spread along X and the body along Y.
func Butterfly(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}
	inv := 2 / float32(size)
	for y := 0; y < size; y++ {
		v := (float32(y)+0.5)*inv - 1
		for x := 0; x < size; x++ {
			u := (float32(x)+0.5)*inv - 1
			a, s := coverage(u, v)
			if a <= 0 {
				continue
			}
			l := uint8(s*255 + 0.5)
			img.SetNRGBA(x, y, color.NRGBA{l, l, l, uint8(a*255 + 0.5)})
		}
	}
	return img
}

// Glow returns a size x size radial falloff used for the pointer sparkle.
func Glow(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}
	inv := 2 / float32(size)
	for y := 0; y < size; y++ {
		v := (float32(y)+0.5)*inv - 1
		for x := 0; x < size; x++ {
			u := (float32(x)+0.5)*inv - 1
			r := math32.Hypot(u, v)
			if r >= 1 {
				continue
			}
			f := (1 - r) * (1 - r)
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, uint8(f*255 + 0.5)})
		}
	}
	return img
}
