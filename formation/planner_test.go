package formation

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/goldswarm/camera"
	"github.com/pthm-cable/goldswarm/sample"
	"github.com/pthm-cable/goldswarm/swarm"
)

func testStore(capacity int) *swarm.Store {
	p := swarm.DefaultParams()
	p.Count = 100
	p.Capacity = capacity
	return swarm.New(p, rand.New(rand.NewSource(99)))
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func squareImage() *image.NRGBA {
	img := solid(100, 100, color.NRGBA{20, 20, 30, 255})
	for y := 30; y < 70; y++ {
		for x := 30; x < 70; x++ {
			img.SetNRGBA(x, y, color.NRGBA{240, 200, 60, 255})
		}
	}
	return img
}

// wideImage is 300x100 with a centred block, sampled onto a grid wider than 16:9.
func wideImage() *image.NRGBA {
	img := solid(300, 100, color.NRGBA{20, 20, 30, 255})
	for y := 30; y < 70; y++ {
		for x := 120; x < 180; x++ {
			img.SetNRGBA(x, y, color.NRGBA{240, 200, 60, 255})
		}
	}
	return img
}

func sampleImage(t *testing.T, img image.Image, capacity int, seed int64) sample.Result {
	t.Helper()
	res, err := sample.New(sample.DefaultParams()).Sample(img, capacity, 0, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return res
}

func TestPlanNoPixelsLeavesStoreUntouched(t *testing.T) {
	store := testStore(500)
	before := append([]mgl32.Vec3(nil), store.Target...)
	cam := camera.New(60, 82, 1280, 720)

	plan, err := NewPlanner(DefaultParams()).Plan(nil, sample.Grid{W: 50, H: 50}, cam, store.Capacity(), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrNoPixels)
	assert.Nil(t, plan)
	assert.Equal(t, before, store.Target)
	assert.Equal(t, 100, store.ActiveCount())
	assert.Equal(t, swarm.ModeSwarm, store.Mode())
}

func TestPlanNeverExceedsCapacity(t *testing.T) {
	cam := camera.New(60, 82, 1280, 720)
	rng := rand.New(rand.NewSource(2))

	for _, capacity := range []int{1, 37, 500, 2500} {
		store := testStore(capacity)
		// Far more points than capacity
		points := make([]sample.Point, 10_000)
		for i := range points {
			points[i] = sample.Point{X: i % 100, Y: i / 100}
		}
		plan, err := NewPlanner(DefaultParams()).Plan(points, sample.Grid{W: 100, H: 100}, cam, capacity, rng)
		require.NoError(t, err)
		n := plan.Apply(store)
		assert.Equal(t, capacity, n)
		assert.LessOrEqual(t, store.ActiveCount(), store.Capacity())
	}
}

func TestSolidImageFormsAllGold(t *testing.T) {
	img := solid(100, 100, color.NRGBA{40, 120, 200, 255})
	store := testStore(3000)
	res := sampleImage(t, img, store.Capacity(), 3)

	plan, err := NewPlanner(DefaultParams()).Plan(res.Points, res.Grid, camera.New(60, 82, 1280, 720), store.Capacity(), rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	plan.Apply(store)

	assert.Zero(t, plan.Foreground())
	assert.Zero(t, store.Foreground())
	for i := 0; i < store.ActiveCount(); i++ {
		h, s, _ := store.Color[i].Hsl()
		require.InDelta(t, 45, h, 4, "slot %d hue", i)
		require.InDelta(t, 0.9, s, 0.01, "slot %d saturation", i)
	}
}

func TestSquareImageSplitsColors(t *testing.T) {
	store := testStore(2500)
	res := sampleImage(t, squareImage(), store.Capacity(), 5)
	require.Equal(t, 2500, len(res.Points))

	plan, err := NewPlanner(DefaultParams()).Plan(res.Points, res.Grid, camera.New(60, 82, 1280, 720), store.Capacity(), rand.New(rand.NewSource(6)))
	require.NoError(t, err)
	plan.Apply(store)

	require.Equal(t, res.Foreground, plan.Foreground())
	require.Positive(t, plan.Foreground())
	require.Less(t, plan.Foreground(), 2500)

	gold := swarm.FromRGB8(240, 200, 60)
	for i, pt := range res.Points {
		c := store.Color[i]
		switch {
		case pt.Foreground:
			assert.Equal(t, swarm.FromRGB8(pt.R, pt.G, pt.B), c)
		default:
			assert.Equal(t, swarm.GoldFromLuma(pt.Luma709()), c)
		}
		// Cells well inside the square keep the square colour exactly
		if pt.X >= 18 && pt.X <= 31 && pt.Y >= 18 && pt.Y <= 31 {
			assert.Equal(t, gold, c, "cell (%d,%d)", pt.X, pt.Y)
		}
	}
}

func TestPlanTargetsFitViewport(t *testing.T) {
	cam := camera.New(60, 82, 1920, 1080)
	vw, vh := cam.VisibleSize()
	points := []sample.Point{
		{X: 0, Y: 0},
		{X: 49, Y: 49},
		{X: 25, Y: 25},
	}
	p := DefaultParams()
	p.DepthJitter = 0

	plan, err := NewPlanner(p).Plan(points, sample.Grid{W: 50, H: 50}, cam, 100, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	// Square grid in a wide viewport fits height
	w, h := plan.WorldSize()
	assert.InDelta(t, vh, h, 1e-3)
	assert.InDelta(t, vh, w, 1e-3)
	assert.Less(t, w, vw)

	sf := vh / 50
	tg := plan.targets
	assert.InDelta(t, -25*sf, tg[0].X(), 1e-3)
	assert.InDelta(t, 25*sf, tg[0].Y(), 1e-3)
	assert.InDelta(t, 24*sf, tg[1].X(), 1e-3)
	assert.InDelta(t, -24*sf, tg[1].Y(), 1e-3)
	assert.Equal(t, mgl32.Vec3{}, tg[2])
}

func TestPlanWideImageFitsWidth(t *testing.T) {
	cam := camera.New(60, 82, 800, 600)
	vw, _ := cam.VisibleSize()
	points := []sample.Point{{X: 0, Y: 0}}

	plan, err := NewPlanner(DefaultParams()).Plan(points, sample.Grid{W: 400, H: 100}, cam, 10, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	w, h := plan.WorldSize()
	assert.InDelta(t, vw, w, 1e-3)
	assert.InDelta(t, vw/4, h, 1e-3)
}

func TestSharedScaleClamped(t *testing.T) {
	cam := camera.New(60, 82, 1920, 1080)
	_, vh := cam.VisibleSize()

	few := make([]sample.Point, 2500)
	plan, err := NewPlanner(DefaultParams()).Plan(few, sample.Grid{W: 50, H: 50}, cam, 50000, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	assert.Equal(t, float32(0.55), plan.Scale())

	many := make([]sample.Point, 50000)
	plan, err = NewPlanner(DefaultParams()).Plan(many, sample.Grid{W: 224, H: 224}, cam, 50000, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	spacing := vh / float32(math.Sqrt(50000))
	assert.InDelta(t, spacing*1.35/1.8, plan.Scale(), 1e-3)
}

func TestRefitRescalesTargets(t *testing.T) {
	store := testStore(3000)
	res := sampleImage(t, wideImage(), store.Capacity(), 10)
	require.Equal(t, sample.Grid{W: 95, H: 50}, res.Grid)

	big := camera.New(60, 82, 1920, 1080)
	plan, err := NewPlanner(DefaultParams()).Plan(res.Points, res.Grid, big, store.Capacity(), rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	plan.Apply(store)
	colorsBefore := append(store.Color[:0:0], store.Color[:store.ActiveCount()]...)
	countBefore := store.ActiveCount()

	small := camera.New(60, 82, 800, 600)
	refit := plan.Refit(small)
	refit.Apply(store)

	w1, h1 := plan.WorldSize()
	w2, h2 := refit.WorldSize()
	rx, ry := w2/w1, h2/h1
	// Both viewports fit width; visible width shrinks with the aspect ratio
	assert.InDelta(t, (800.0/600.0)/(1920.0/1080.0), rx, 1e-4)
	assert.InDelta(t, rx, ry, 1e-4)

	assert.Equal(t, countBefore, store.ActiveCount())
	assert.Equal(t, colorsBefore, store.Color[:store.ActiveCount()])
	for i, before := range plan.targets {
		after := refit.targets[i]
		require.InDelta(t, before.X()*rx, after.X(), 1e-3)
		require.InDelta(t, before.Y()*ry, after.Y(), 1e-3)
		require.Equal(t, before.Z(), after.Z())
	}
}

func TestReplanDistributionStable(t *testing.T) {
	cam := camera.New(60, 82, 1280, 720)
	const capacity = 1000

	fraction := func(seed int64) float64 {
		res := sampleImage(t, squareImage(), capacity, seed)
		plan, err := NewPlanner(DefaultParams()).Plan(res.Points, res.Grid, cam, capacity, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.Equal(t, capacity, plan.Count())
		return float64(plan.Foreground()) / float64(plan.Count())
	}

	a, b := fraction(21), fraction(22)
	assert.InDelta(t, a, b, 0.05)
}

func TestReport(t *testing.T) {
	r := Report{Formed: 2500, Colored: 441}
	assert.Equal(t, "Formed: 2500 butterflies (441 colored)", r.Status())
	assert.Equal(t, slog.KindGroup, r.LogValue().Kind())
}
