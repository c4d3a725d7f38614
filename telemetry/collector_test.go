package telemetry

import (
	"math"
	"testing"
)

func TestCollector_WindowFrames(t *testing.T) {
	c := NewCollector(5.0, 1.0/60)
	if got := c.WindowDurationFrames(); got != 300 {
		t.Errorf("frames per window = %d, want 300", got)
	}
	if c.ShouldFlush(299) {
		t.Error("flushed before the window elapsed")
	}
	if !c.ShouldFlush(300) {
		t.Error("did not flush when the window elapsed")
	}

	// 1/60 is not exact in float32
	for _, tt := range []struct {
		sec  float64
		fps  float32
		want int32
	}{
		{0.1, 60, 6},
		{1, 30, 30},
		{5, 144, 720},
	} {
		if got := NewCollector(tt.sec, 1/tt.fps).WindowDurationFrames(); got != tt.want {
			t.Errorf("window %vs at %v fps = %d frames, want %d", tt.sec, tt.fps, got, tt.want)
		}
	}

	tiny := NewCollector(0.001, 1.0/60)
	if got := tiny.WindowDurationFrames(); got != 1 {
		t.Errorf("frames per window = %d, want at least 1", got)
	}
}

func TestCollector_FlushResetsCounters(t *testing.T) {
	c := NewCollector(1.0, 0.5)

	c.RecordFormation()
	c.RecordFormation()
	c.RecordRejection()
	c.RecordReset()
	c.RecordReplan()

	stats := c.Flush(2, Snapshot{
		Mode:          "formation",
		Active:        3,
		Capacity:      10,
		Foreground:    2,
		Speeds:        []float64{3, 1, 2},
		KineticEnergy: 14,
	})

	if stats.Formations != 2 || stats.Rejections != 1 || stats.Resets != 1 || stats.Replans != 1 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.SimTimeSec != 1.0 {
		t.Errorf("sim time = %v, want 1.0", stats.SimTimeSec)
	}
	if math.Abs(stats.SpeedMean-2) > 1e-9 || stats.SpeedP50 != 2 {
		t.Errorf("speed mean/p50 = %v/%v, want 2/2", stats.SpeedMean, stats.SpeedP50)
	}
	if stats.Mode != "formation" || stats.Active != 3 || stats.Foreground != 2 {
		t.Errorf("snapshot not carried through: %+v", stats)
	}

	next := c.Flush(4, Snapshot{})
	if next.WindowStartFrame != 2 {
		t.Errorf("next window start = %d, want 2", next.WindowStartFrame)
	}
	if next.Formations != 0 || next.Rejections != 0 || next.Resets != 0 || next.Replans != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
