package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pthm-cable/goldswarm/camera"
	"github.com/pthm-cable/goldswarm/formation"
	"github.com/pthm-cable/goldswarm/sample"
	"github.com/pthm-cable/goldswarm/telemetry"
)

// ErrRead is returned when the image bytes cannot be read.
var ErrRead = errors.New("read failed")

const statusProcessing = "Processing..."

// StatusFor maps a formation error to its status text.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRead):
		return "Read failed"
	case errors.Is(err, sample.ErrDecode):
		return "Decode failed"
	case errors.Is(err, formation.ErrNoPixels), errors.Is(err, sample.ErrEmptyImage):
		return "No pixels found"
	default:
		return "Formation failed"
	}
}

type imageSource func(ctx context.Context, perf *telemetry.PerfCollector) (image.Image, error)

type formResult struct {
	gen     uint64
	name    string
	cam     camera.Camera
	res     sample.Result
	plan    *formation.Plan
	timings telemetry.PerfSample
	err     error
}

// LoadImageFile reads, decodes and forms the image at path.
func (s *Simulation) LoadImageFile(path string) {
	maxPixels := s.sampleParams.MaxPixels
	s.startFormation(filepath.Base(path), func(_ context.Context, perf *telemetry.PerfCollector) (image.Image, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRead, err)
		}
		perf.StartPhase(telemetry.PhaseDecode)
		img, _, err := sample.Decode(bytes.NewReader(data), maxPixels)
		return img, err
	})
}

// LoadReader forms the image encoded in r. r is drained before returning.
func (s *Simulation) LoadReader(r io.Reader, name string) {
	data, err := io.ReadAll(r)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRead, err)
	}
	maxPixels := s.sampleParams.MaxPixels
	s.startFormation(name, func(_ context.Context, perf *telemetry.PerfCollector) (image.Image, error) {
		if err != nil {
			return nil, err
		}
		perf.StartPhase(telemetry.PhaseDecode)
		img, _, derr := sample.Decode(bytes.NewReader(data), maxPixels)
		return img, derr
	})
}

// startFormation supersedes any in-flight job and runs load through sampling
// and planning. The store is only touched in finishFormation on this goroutine.
func (s *Simulation) startFormation(name string, load imageSource) {
	s.invalidate()
	gen := s.gen
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.status = statusProcessing

	cam := *s.cam
	capacity := s.store.Capacity()
	free := s.store.FreeCount()
	sp, fp := s.sampleParams, s.formationParams
	rng := rand.New(rand.NewSource(s.rng.Int63()))

	job := func() formResult {
		r := formResult{gen: gen, name: name, cam: cam}
		perf := telemetry.NewPerfCollector(1)
		perf.StartTick()
		defer func() {
			perf.EndTick()
			r.timings = perf.Last()
		}()

		img, err := load(ctx, perf)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			r.err = err
			return r
		}

		sampler := sample.New(sp)
		sampler.Timer = perf
		r.res, r.err = sampler.Sample(img, capacity, free, rng)
		if r.err == nil {
			r.err = ctx.Err()
		}
		if r.err != nil {
			return r
		}

		planner := formation.NewPlanner(fp)
		planner.Timer = perf
		r.plan, r.err = planner.Plan(r.res.Points, r.res.Grid, &cam, capacity, rng)
		return r
	}

	if !s.async {
		s.finishFormation(job())
		return
	}
	go func() {
		r := job()
		select {
		case s.results <- r:
		case <-ctx.Done():
		}
	}()
}

// invalidate makes any in-flight job stale.
func (s *Simulation) invalidate() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Simulation) collectResults() {
	for {
		select {
		case r := <-s.results:
			s.finishFormation(r)
		default:
			return
		}
	}
}

func (s *Simulation) finishFormation(r formResult) {
	if r.gen != s.gen {
		return
	}
	s.cancel()
	s.cancel = nil

	rec := telemetry.FormationRecord{
		Frame:  s.frame,
		Source: r.name,
		GridW:  r.res.Grid.W,
		GridH:  r.res.Grid.H,
		Cells:  r.res.Cells,
	}.WithTimings(r.timings)

	if r.err != nil {
		s.status = StatusFor(r.err)
		s.collector.RecordRejection()
		slog.Warn("formation rejected", "source", r.name, "status", s.status, "error", r.err)
		rec.Outcome = "rejected"
		s.writeFormation(rec)
		return
	}

	plan := r.plan
	if r.cam != *s.cam {
		plan = plan.Refit(s.cam)
	}
	s.plan = plan
	s.sourceName = r.name
	s.resizeQuiet = 0
	plan.Apply(s.store)

	report := plan.Report()
	s.status = report.Status()
	s.collector.RecordFormation()
	slog.Info("formation applied", "source", r.name, "report", report)

	rec.Outcome = "formed"
	rec.Active = s.store.ActiveCount()
	rec.Foreground = s.store.Foreground()
	rec.Scale = float64(report.Scale)
	s.writeFormation(withWorldSize(rec, plan))
}

func (s *Simulation) writeFormation(rec telemetry.FormationRecord) {
	if s.output == nil {
		return
	}
	if err := s.output.WriteFormation(rec); err != nil {
		slog.Error("failed to write formation", "error", err)
	}
}

// withWorldSize fills the fitted image size in world units.
func withWorldSize(rec telemetry.FormationRecord, p *formation.Plan) telemetry.FormationRecord {
	w, h := p.WorldSize()
	rec.WorldW, rec.WorldH = float64(w), float64(h)
	return rec
}
