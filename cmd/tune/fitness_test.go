package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/goldswarm/config"
	"github.com/pthm-cable/goldswarm/segment"
)

func squarePair() (img, truth *image.NRGBA) {
	img = image.NewNRGBA(image.Rect(0, 0, 100, 100))
	truth = image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			inside := x >= 30 && x < 70 && y >= 30 && y < 70
			c, t := color.NRGBA{20, 20, 30, 255}, color.NRGBA{0, 0, 0, 255}
			if inside {
				c, t = color.NRGBA{240, 200, 60, 255}, color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
			truth.SetNRGBA(x, y, t)
		}
	}
	return img, truth
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Swarm.Capacity = 2500
	cfg.Swarm.Count = 100
	return cfg
}

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b segment.Mask
		want float64
	}{
		{"both empty", segment.Mask{0, 0}, segment.Mask{0, 0}, 1},
		{"identical", segment.Mask{1, 0, 1}, segment.Mask{1, 0, 1}, 1},
		{"disjoint", segment.Mask{1, 0}, segment.Mask{0, 1}, 0},
		{"half", segment.Mask{1, 1, 0, 0}, segment.Mask{1, 0, 0, 0}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IoU(tt.a, tt.b), 1e-12)
		})
	}
}

func TestClampRoundsIntegers(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{30.6, 500, -3, 127.4})
	assert.Equal(t, []float64{31, 200, 0, 127}, got)
}

func TestApplyToConfigUpdatesDerived(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	pv.ApplyToConfig(cfg, []float64{40, 50, 3, 100})

	assert.Equal(t, 40, cfg.Segment.EdgeThreshold)
	assert.Equal(t, 3, cfg.Segment.CloseRadius)
	assert.Equal(t, 100, cfg.Segment.AlphaThreshold)
	assert.Equal(t, 2500.0, cfg.Derived.ColorToleranceSq)
	assert.Equal(t, []float64{40, 50, 3, 100}, pv.ExtractFromConfig(cfg))
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	assert.InDeltaSlice(t, def, pv.Denormalize(pv.Normalize(def)), 1e-9)
}

func TestEvaluateSquare(t *testing.T) {
	img, truth := squarePair()
	fe := NewFitnessEvaluator(NewParamVector(), []LabelledImage{{Name: "square", Image: img, Truth: truth}}, smallConfig())

	fitness := fe.Evaluate(NewParamVector().DefaultVector())
	// The square covers 20x20 cells of the 50x50 grid; the Sobel band around
	// it stays foreground, so the mask grows by up to three cells per side.
	assert.Less(t, fitness, -400.0/(26*26))
	assert.Greater(t, fitness, -1.0)
	assert.GreaterOrEqual(t, fitness, -1.0)
	require.Len(t, fe.LastIoU(), 1)
	assert.InDelta(t, -fitness, fe.LastIoU()[0], 1e-12)
	assert.Equal(t, []string{"square"}, fe.Names())
}

func TestEvaluateRewardsMatchingTruth(t *testing.T) {
	img, _ := squarePair()
	// Truth that includes the edge ring scores better than the bare square
	ring := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			c := color.NRGBA{0, 0, 0, 255}
			if x >= 26 && x < 74 && y >= 26 && y < 74 {
				c = color.NRGBA{255, 255, 255, 255}
			}
			ring.SetNRGBA(x, y, c)
		}
	}
	_, truth := squarePair()
	pv := NewParamVector()
	bare := NewFitnessEvaluator(pv, []LabelledImage{{Name: "bare", Image: img, Truth: truth}}, smallConfig())
	ringed := NewFitnessEvaluator(pv, []LabelledImage{{Name: "ring", Image: img, Truth: ring}}, smallConfig())

	assert.Less(t, ringed.Evaluate(pv.DefaultVector()), bare.Evaluate(pv.DefaultVector()))
}

func TestLoadLabelled(t *testing.T) {
	dir := t.TempDir()
	img, truth := squarePair()
	writePNG(t, filepath.Join(dir, "square.png"), img)
	writePNG(t, filepath.Join(dir, "square.mask.png"), truth)

	got, err := LoadLabelled(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "square", got[0].Name)
	assert.Equal(t, image.Rect(0, 0, 100, 100), got[0].Image.Bounds())
}

func TestLoadLabelledMissingImage(t *testing.T) {
	dir := t.TempDir()
	_, truth := squarePair()
	writePNG(t, filepath.Join(dir, "orphan.mask.png"), truth)

	_, err := LoadLabelled(dir)
	assert.Error(t, err)
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
