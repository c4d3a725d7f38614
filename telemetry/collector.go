package telemetry

import "math"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec    float64
	windowDurationFrames int32
	dt                   float32

	// Current window tracking
	windowStartFrame int32

	// Event counters for current window
	formations int
	rejections int
	resets     int
	replans    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per frame (used for frame-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	framesPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}

	return &Collector{
		windowDurationSec:    windowDurationSec,
		windowDurationFrames: framesPerWindow,
		dt:                   dt,
	}
}

// RecordFormation records an applied formation.
func (c *Collector) RecordFormation() {
	c.formations++
}

// RecordRejection records a formation trigger that left the swarm unchanged.
func (c *Collector) RecordRejection() {
	c.rejections++
}

// RecordReset records a return to free flight.
func (c *Collector) RecordReset() {
	c.resets++
}

// RecordReplan records a formation rebuilt after a viewport resize.
func (c *Collector) RecordReplan() {
	c.replans++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int32) bool {
	return currentFrame-c.windowStartFrame >= c.windowDurationFrames
}

// Snapshot is the swarm state sampled when a window is flushed.
type Snapshot struct {
	Mode          string
	Active        int
	Capacity      int
	Foreground    int
	Speeds        []float64 // per active particle, may be sorted in place
	KineticEnergy float64
	PointerSpeed  float64
	VisualScale   float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentFrame int32, snap Snapshot) WindowStats {
	mean, std, p10, p50, p90 := ComputeSpeedStats(snap.Speeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		SimTimeSec:       float64(currentFrame) * float64(c.dt),

		Mode:       snap.Mode,
		Active:     snap.Active,
		Capacity:   snap.Capacity,
		Foreground: snap.Foreground,

		Formations: c.formations,
		Rejections: c.rejections,
		Resets:     c.resets,
		Replans:    c.replans,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		KineticEnergy: snap.KineticEnergy,
		PointerSpeed:  snap.PointerSpeed,
		VisualScale:   snap.VisualScale,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.formations = 0
	c.rejections = 0
	c.resets = 0
	c.replans = 0

	return stats
}

// WindowDurationFrames returns the number of frames per window.
func (c *Collector) WindowDurationFrames() int32 {
	return c.windowDurationFrames
}
