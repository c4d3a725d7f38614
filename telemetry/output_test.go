package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/goldswarm/config"
)

func TestOutputManager_NilWhenDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// All writes on a nil manager are no-ops
	if err := om.WriteFormation(FormationRecord{}); err != nil {
		t.Errorf("nil WriteFormation: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManager_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndFrame: int32(i), Mode: "swarm"}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
		if err := om.WritePerf(PerfStats{}, int32(i)); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	rec := FormationRecord{Source: "cat.png", Outcome: "formed", Active: 42}
	rec = rec.WithTimings(PerfSample{Phases: map[string]time.Duration{PhaseSegment: 3 * time.Millisecond}})
	if err := om.WriteFormation(rec); err != nil {
		t.Fatalf("WriteFormation: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := func(name string) []string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		return strings.Split(strings.TrimSpace(string(data)), "\n")
	}

	if got := lines("telemetry.csv"); len(got) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2", len(got))
	}
	if got := lines("perf.csv"); len(got) != 3 {
		t.Errorf("perf.csv has %d lines, want header + 2", len(got))
	}

	form := lines("formations.csv")
	if len(form) != 2 {
		t.Fatalf("formations.csv has %d lines, want 2", len(form))
	}
	if !strings.HasPrefix(form[0], "frame,source,outcome") {
		t.Errorf("formations header = %q", form[0])
	}
	if !strings.Contains(form[1], "cat.png,formed") || !strings.Contains(form[1], ",3000,") {
		t.Errorf("formations row = %q", form[1])
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}
