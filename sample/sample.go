// Package sample downsamples a source image onto a working grid sized from the
// particle capacity and classifies every grid cell as foreground or background.
package sample

import (
	"errors"
	"image"
	"math"
	"math/rand"

	"golang.org/x/image/draw"

	"github.com/pthm-cable/goldswarm/segment"
	"github.com/pthm-cable/goldswarm/telemetry"
)

// ErrEmptyImage is returned for images with zero-area bounds.
var ErrEmptyImage = errors.New("image has no pixels")

// Point is one colored, classified grid cell.
type Point struct {
	X, Y       int
	R, G, B    uint8
	Foreground bool
}

// Luma709 returns the Rec.709 luma of the point in [0, 1].
func (p Point) Luma709() float64 {
	return (float64(p.R)*0.2126 + float64(p.G)*0.7152 + float64(p.B)*0.0722) / 255
}

// Grid is the working resolution.
type Grid struct {
	W, H int
}

// Cells returns the cell count.
func (g Grid) Cells() int {
	return g.W * g.H
}

// Params holds sampling bounds and the segmentation constants.
type Params struct {
	MinSide              int
	MaxSide              int
	FreeFlightOversample int
	MaxPixels            int // decode budget, 0 = unlimited
	Segment              segment.Params
}

// DefaultParams returns the stock grid bounds.
func DefaultParams() Params {
	return Params{
		MinSide:              50,
		MaxSide:              500,
		FreeFlightOversample: 2,
		MaxPixels:            64 << 20,
		Segment:              segment.DefaultParams(),
	}
}

// Result is the output of one sampling pass.
type Result struct {
	Grid       Grid
	Points     []Point // shuffled, truncated to capacity
	Cells      int     // grid cells before truncation
	Foreground int     // foreground cells in the whole grid
}

// PhaseTimer receives phase boundaries. telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// GridSize picks a grid holding at least max(capacity, freeCount*oversample)
// cells with the source aspect ratio, each side clamped to [MinSide, MaxSide].
func GridSize(srcW, srcH, capacity, freeCount int, p Params) Grid {
	if srcW <= 0 || srcH <= 0 {
		return Grid{}
	}
	aspect := float64(srcH) / float64(srcW)
	target := max(capacity, freeCount*p.FreeFlightOversample)

	w := int(math.Ceil(math.Sqrt(float64(target) / aspect)))
	h := int(math.Ceil(float64(w) * aspect))

	w = max(p.MinSide, min(w, p.MaxSide))
	h = max(p.MinSide, min(h, p.MaxSide))
	return Grid{W: w, H: h}
}

// Rasterize draws img scaled onto a fresh w*h NRGBA surface.
func Rasterize(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Sampler turns images into shuffled sample points.
type Sampler struct {
	Params Params
	Timer  PhaseTimer
}

// New creates a sampler.
func New(p Params) *Sampler {
	return &Sampler{Params: p}
}

func (s *Sampler) phase(name string) {
	if s.Timer != nil {
		s.Timer.StartPhase(name)
	}
}

// Sample rasterizes img, segments it and returns at most capacity points in
// random order. Truncating a shuffled list gives a spatially unbiased subsample.
func (s *Sampler) Sample(img image.Image, capacity, freeCount int, rng *rand.Rand) (Result, error) {
	b := img.Bounds()
	if b.Empty() {
		return Result{}, ErrEmptyImage
	}

	grid := GridSize(b.Dx(), b.Dy(), capacity, freeCount, s.Params)

	s.phase(telemetry.PhaseRasterize)
	surface := Rasterize(img, grid.W, grid.H)

	s.phase(telemetry.PhaseSegment)
	mask := segment.Segment(surface.Pix, grid.W, grid.H, s.Params.Segment)

	points := make([]Point, 0, grid.Cells())
	fg := 0
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			i := y*grid.W + x
			o := y*surface.Stride + x*4
			isFG := mask[i] != 0
			if isFG {
				fg++
			}
			points = append(points, Point{
				X: x, Y: y,
				R: surface.Pix[o], G: surface.Pix[o+1], B: surface.Pix[o+2],
				Foreground: isFG,
			})
		}
	}

	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
	cells := len(points)
	if capacity >= 0 && len(points) > capacity {
		points = points[:capacity]
	}

	return Result{Grid: grid, Points: points, Cells: cells, Foreground: fg}, nil
}
