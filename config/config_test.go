package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Swarm.Count != 4600 {
		t.Errorf("swarm.count = %d, want 4600", cfg.Swarm.Count)
	}
	if cfg.Swarm.Capacity != 50000 {
		t.Errorf("swarm.capacity = %d, want 50000", cfg.Swarm.Capacity)
	}
	if cfg.Segment.EdgeThreshold != 30 {
		t.Errorf("segment.edge_threshold = %d, want 30", cfg.Segment.EdgeThreshold)
	}
	if cfg.Physics.Formation.PointerScale != 0.08 {
		t.Errorf("physics.formation.pointer_scale = %v, want 0.08", cfg.Physics.Formation.PointerScale)
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := Default()
	if cfg.Derived.MaxDT32 != float32(0.035) {
		t.Errorf("MaxDT32 = %v, want 0.035", cfg.Derived.MaxDT32)
	}
	if cfg.Derived.ColorToleranceSq != 3600 {
		t.Errorf("ColorToleranceSq = %v, want 3600", cfg.Derived.ColorToleranceSq)
	}
}

func TestLoadOverlayKeepsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	overlay := "swarm:\n  count: 1000\nsegment:\n  edge_threshold: 45\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Swarm.Count != 1000 {
		t.Errorf("swarm.count = %d, want 1000", cfg.Swarm.Count)
	}
	if cfg.Segment.EdgeThreshold != 45 {
		t.Errorf("segment.edge_threshold = %d, want 45", cfg.Segment.EdgeThreshold)
	}
	// Untouched fields keep their defaults
	if cfg.Swarm.Capacity != 50000 {
		t.Errorf("swarm.capacity = %d, want 50000", cfg.Swarm.Capacity)
	}
	if cfg.Segment.CloseRadius != 2 {
		t.Errorf("segment.close_radius = %d, want 2", cfg.Segment.CloseRadius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("error = %q, want reading config file prefix", err)
	}
}

func TestValidateRejectsCapacityBelowCount(t *testing.T) {
	cfg := Default()
	cfg.Swarm.Capacity = cfg.Swarm.Count - 1
	cfg.Camera.Distance = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "swarm.capacity") || !strings.Contains(msg, "camera.distance") {
		t.Errorf("error should report both problems, got %q", msg)
	}
}

func TestDecodeBudget(t *testing.T) {
	cfg := Default()
	if cfg.Sample.MaxPixels != 64<<20 {
		t.Errorf("sample.max_pixels = %d, want %d", cfg.Sample.MaxPixels, 64<<20)
	}
	cfg.Sample.MaxPixels = -1
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "sample.max_pixels") {
		t.Errorf("expected sample.max_pixels error, got %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Segment.ColorTolerance = 72
	path := filepath.Join(t.TempDir(), "snap.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Segment.ColorTolerance != 72 {
		t.Errorf("color_tolerance = %v, want 72", loaded.Segment.ColorTolerance)
	}
}
