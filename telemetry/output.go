package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/goldswarm/config"
)

// FormationRecord is one row of formations.csv.
type FormationRecord struct {
	Frame       int32   `csv:"frame"`
	Source      string  `csv:"source"`
	Outcome     string  `csv:"outcome"`
	GridW       int     `csv:"grid_w"`
	GridH       int     `csv:"grid_h"`
	Cells       int     `csv:"cells"`
	Active      int     `csv:"active"`
	Foreground  int     `csv:"foreground"`
	Scale       float64 `csv:"scale"`
	WorldW      float64 `csv:"world_w"`
	WorldH      float64 `csv:"world_h"`
	DecodeUS    int64   `csv:"decode_us"`
	RasterizeUS int64   `csv:"rasterize_us"`
	SegmentUS   int64   `csv:"segment_us"`
	PlanUS      int64   `csv:"plan_us"`
}

// WithTimings copies formation phase durations from a perf sample.
func (r FormationRecord) WithTimings(s PerfSample) FormationRecord {
	r.DecodeUS = s.Phases[PhaseDecode].Microseconds()
	r.RasterizeUS = s.Phases[PhaseRasterize].Microseconds()
	r.SegmentUS = s.Phases[PhaseSegment].Microseconds()
	r.PlanUS = s.Phases[PhasePlan].Microseconds()
	return r
}

// csvFile appends records to a CSV file, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	telemetry  *csvFile
	perf       *csvFile
	formations *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = createCSV(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = createCSV(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.formations, err = createCSV(dir, "formations.csv"); err != nil {
		om.Close()
		return nil, err
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteFormation writes a formation record to formations.csv.
func (om *OutputManager) WriteFormation(r FormationRecord) error {
	if om == nil {
		return nil
	}
	if err := om.formations.write([]FormationRecord{r}); err != nil {
		return fmt.Errorf("writing formation: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.perf, om.formations} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
