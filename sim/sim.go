// Package sim owns the swarm and everything that mutates it: triggers from the
// UI, the per-frame systems and telemetry. It has no window dependency, so the
// graphical shell and headless runs drive the same code.
package sim

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/goldswarm/camera"
	"github.com/pthm-cable/goldswarm/config"
	"github.com/pthm-cable/goldswarm/formation"
	"github.com/pthm-cable/goldswarm/sample"
	"github.com/pthm-cable/goldswarm/swarm"
	"github.com/pthm-cable/goldswarm/systems"
	"github.com/pthm-cable/goldswarm/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed int64

	// Viewport size, defaults to the configured screen
	ViewportW, ViewportH float32

	// Output receives CSV telemetry, nil disables it
	Output *telemetry.OutputManager

	// LogStats logs window and perf stats on every flush
	LogStats bool

	// StatsCallback is called with each flushed window
	StatsCallback func(telemetry.WindowStats)
}

// Simulation is the explicit context that the frame loop and trigger handlers
// share. All methods must be called from one goroutine.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	store   *swarm.Store
	cam     *camera.Camera
	ptr     *systems.PointerTracker
	stepper *systems.Stepper
	poser   *systems.Poser

	sampleParams    sample.Params
	formationParams formation.Params

	// Active formation; nil in free flight
	plan       *formation.Plan
	sourceName string

	status string
	time   float32
	frame  int32

	// Resize debounce: seconds left before re-planning, 0 when idle
	resizeQuiet float32

	// Async formation
	async   bool
	ctx     context.Context
	stop    context.CancelFunc
	gen     uint64
	cancel  context.CancelFunc
	results chan formResult

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	speeds        []float64
}

// New creates a simulation in free flight.
func New(cfg *config.Config, opts Options) *Simulation {
	vw, vh := opts.ViewportW, opts.ViewportH
	if vw <= 0 || vh <= 0 {
		vw, vh = float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	store := swarm.New(SwarmParams(cfg), rng)
	ctx, stop := context.WithCancel(context.Background())
	frameRate := float32(cfg.Physics.FrameRate)
	if frameRate <= 0 {
		frameRate = 60
	}

	s := &Simulation{
		cfg:             cfg,
		rng:             rng,
		store:           store,
		cam:             camera.New(float32(cfg.Camera.FOV), float32(cfg.Camera.Distance), vw, vh),
		ptr:             systems.NewPointerTracker(PointerParams(cfg)),
		stepper:         systems.NewStepper(PhysicsParams(cfg)),
		poser:           systems.NewPoser(store.Capacity(), VisualParams(cfg)),
		sampleParams:    SampleParams(cfg),
		formationParams: FormationParams(cfg),
		async:           cfg.Formation.Async,
		ctx:             ctx,
		stop:            stop,
		results:         make(chan formResult, 4),
		perf:            telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:       telemetry.NewCollector(cfg.Telemetry.StatsWindow, 1/frameRate),
		output:          opts.Output,
		logStats:        opts.LogStats,
		statsCallback:   opts.StatsCallback,
	}
	s.status = swarmStatus(store.ActiveCount())
	s.poser.Update(store, 0, 0)
	return s
}

func swarmStatus(n int) string {
	return fmt.Sprintf("Swarm reset (%d butterflies)", n)
}

// Store returns the particle store. Read-only outside the simulation goroutine.
func (s *Simulation) Store() *swarm.Store { return s.store }

// Camera returns the viewport camera.
func (s *Simulation) Camera() *camera.Camera { return s.cam }

// Pointer returns the pointer tracker.
func (s *Simulation) Pointer() *systems.PointerTracker { return s.ptr }

// Poses returns the per-particle transforms from the last Update.
func (s *Simulation) Poses() []systems.Pose { return s.poser.Poses(s.store) }

// Sparkle returns the pointer light.
func (s *Simulation) Sparkle() systems.Sparkle { return systems.SparkleAt(s.ptr, s.time) }

// Status returns the last operation outcome for display.
func (s *Simulation) Status() string { return s.status }

// Mode returns the current regime.
func (s *Simulation) Mode() swarm.Mode { return s.store.Mode() }

// Formed reports whether an image formation is active.
func (s *Simulation) Formed() bool { return s.plan != nil }

// Pending reports whether an async formation is in flight.
func (s *Simulation) Pending() bool { return s.cancel != nil }

// Time returns elapsed simulation time in seconds.
func (s *Simulation) Time() float32 { return s.time }

// Frame returns the number of completed frames.
func (s *Simulation) Frame() int32 { return s.frame }

// Perf returns the frame perf collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// Reset returns to free flight and discards any in-flight formation.
func (s *Simulation) Reset() {
	s.invalidate()
	s.plan = nil
	s.sourceName = ""
	s.resizeQuiet = 0
	s.store.Reset(s.rng)
	s.status = swarmStatus(s.store.ActiveCount())
	s.collector.RecordReset()
	slog.Info("swarm reset", "active", s.store.ActiveCount())
}

// Resize applies a new viewport. A formed image is re-planned once resize
// events stop arriving for the configured quiet period.
func (s *Simulation) Resize(w, h float32) {
	if w <= 0 || h <= 0 || !s.cam.Resize(w, h) {
		return
	}
	if s.plan != nil {
		s.resizeQuiet = float32(s.cfg.Resize.QuietPeriod)
		if s.resizeQuiet <= 0 {
			s.replan()
		}
	}
}

func (s *Simulation) replan() {
	s.resizeQuiet = 0
	if s.plan == nil {
		return
	}
	s.plan = s.plan.Refit(s.cam)
	s.plan.Apply(s.store)
	report := s.plan.Report()
	s.status = report.Status()
	s.collector.RecordReplan()
	slog.Info("formation refit", "source", s.sourceName, "report", report)
	g := s.plan.Grid()
	s.writeFormation(withWorldSize(telemetry.FormationRecord{
		Frame:      s.frame,
		Source:     s.sourceName,
		Outcome:    "replan",
		GridW:      g.W,
		GridH:      g.H,
		Cells:      g.Cells(),
		Active:     s.store.ActiveCount(),
		Foreground: s.store.Foreground(),
		Scale:      float64(report.Scale),
	}, s.plan))
}

// PointerMoved feeds a pointer position in screen pixels.
func (s *Simulation) PointerMoved(sx, sy float32) {
	s.ptr.Move(s.cam.ScreenToWorld(sx, sy))
}

// Update advances one frame. The render phase stays open until EndFrame.
func (s *Simulation) Update(dt float32) {
	s.perf.StartTick()

	s.collectResults()
	if s.resizeQuiet > 0 {
		s.resizeQuiet -= dt
		if s.resizeQuiet <= 0 {
			s.replan()
		}
	}

	s.perf.StartPhase(telemetry.PhasePointer)
	s.ptr.Decay()

	s.perf.StartPhase(telemetry.PhasePhysics)
	step := s.stepper.Step(s.store, s.ptr, dt)
	s.time += max(dt, 0)

	s.perf.StartPhase(telemetry.PhasePose)
	s.poser.Update(s.store, s.time, step)

	s.perf.StartPhase(telemetry.PhaseRender)
}

// EndFrame closes the frame's perf sample and flushes telemetry windows.
func (s *Simulation) EndFrame() {
	s.perf.EndTick()
	s.frame++
	s.flushTelemetry()
}

func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.frame) {
		return
	}

	s.speeds = systems.Speeds(s.store, s.speeds[:0])
	stats := s.collector.Flush(s.frame, telemetry.Snapshot{
		Mode:          s.store.Mode().String(),
		Active:        s.store.ActiveCount(),
		Capacity:      s.store.Capacity(),
		Foreground:    s.store.Foreground(),
		Speeds:        s.speeds,
		KineticEnergy: systems.KineticEnergy(s.store),
		PointerSpeed:  float64(s.ptr.Speed()),
		VisualScale:   float64(s.poser.VisualScale(s.store)),
	})
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// LoadImage forms the swarm into img. name is used for logs only.
func (s *Simulation) LoadImage(img image.Image, name string) {
	s.startFormation(name, func(context.Context, *telemetry.PerfCollector) (image.Image, error) {
		return img, nil
	})
}

// Close stops background work.
func (s *Simulation) Close() {
	s.invalidate()
	s.stop()
	s.stepper.Close()
}

// VisualScale returns the shared butterfly size currently applied.
func (s *Simulation) VisualScale() float32 { return s.poser.VisualScale(s.store) }

// SizeBlend returns the free-flight to formation size blend in [0, 1].
func (s *Simulation) SizeBlend() float32 { return float32(s.poser.Blend()) }

// KineticEnergy returns the current kinetic energy of the active swarm.
func (s *Simulation) KineticEnergy() float64 { return systems.KineticEnergy(s.store) }
