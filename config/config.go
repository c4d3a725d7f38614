// Package config provides configuration loading and access for the swarm.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all swarm configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Segment   SegmentConfig   `yaml:"segment"`
	Sample    SampleConfig    `yaml:"sample"`
	Formation FormationConfig `yaml:"formation"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Visual    VisualConfig    `yaml:"visual"`
	Resize    ResizeConfig    `yaml:"resize"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig holds the fixed perspective camera.
type CameraConfig struct {
	FOV      float64 `yaml:"fov"`      // Vertical field of view in degrees
	Distance float64 `yaml:"distance"` // Camera distance from the z=0 plane
}

// SwarmConfig holds particle store sizing and per-slot randomization ranges.
type SwarmConfig struct {
	Count          int        `yaml:"count"`    // Free-flight active count
	Capacity       int        `yaml:"capacity"` // Fixed arena size
	HomeExtent     [3]float64 `yaml:"home_extent"`
	FlapSpeedMin   float64    `yaml:"flap_speed_min"`
	FlapSpeedRange float64    `yaml:"flap_speed_range"`
	ScaleMin       float64    `yaml:"scale_min"`
	ScaleRange     float64    `yaml:"scale_range"`
	YawJitter      float64    `yaml:"yaw_jitter"`
}

// SegmentConfig holds foreground detection constants.
type SegmentConfig struct {
	AlphaThreshold       int     `yaml:"alpha_threshold"`
	TransparencyFraction float64 `yaml:"transparency_fraction"` // Alpha shortcut above this fraction
	EdgeThreshold        int     `yaml:"edge_threshold"`
	ColorTolerance       float64 `yaml:"color_tolerance"` // Euclidean RGB distance, compared squared
	CloseRadius          int     `yaml:"close_radius"`
}

// SampleConfig holds working grid bounds.
type SampleConfig struct {
	MinSide              int `yaml:"min_side"`
	MaxSide              int `yaml:"max_side"`
	FreeFlightOversample int `yaml:"free_flight_oversample"` // Grid holds at least count*this cells
	MaxPixels            int `yaml:"max_pixels"`             // Larger images are rejected before decoding
}

// FormationConfig holds image-to-target mapping parameters.
type FormationConfig struct {
	GeoSize           float64 `yaml:"geo_size"` // Billboard quad side in world units at scale 1
	SpacingMultiplier float64 `yaml:"spacing_multiplier"`
	MinScale          float64 `yaml:"min_scale"`
	MaxScale          float64 `yaml:"max_scale"`
	DepthJitter       float64 `yaml:"depth_jitter"`
	VelocityKeep      float64 `yaml:"velocity_keep"`       // Velocity fraction kept on formation
	ResetVelocityKeep float64 `yaml:"reset_velocity_keep"` // Velocity fraction kept on reset
	Async             bool    `yaml:"async"`
}

// RegimeConfig holds spring constants for one motion regime.
type RegimeConfig struct {
	Spring       float64 `yaml:"spring"`
	SpringZ      float64 `yaml:"spring_z"`
	Damping      float64 `yaml:"damping"`
	PointerScale float64 `yaml:"pointer_scale"`
}

// PhysicsConfig holds integrator and pointer field parameters.
type PhysicsConfig struct {
	MaxDT             float64      `yaml:"max_dt"`
	FrameRate         float64      `yaml:"frame_rate"` // Reference cadence for acceleration
	Speed             float64      `yaml:"speed"`      // Position integration multiplier
	InteractionRadius float64      `yaml:"interaction_radius"`
	Push              float64      `yaml:"push"`
	PushZ             float64      `yaml:"push_z"`
	Drag              float64      `yaml:"drag"`
	Swirl             float64      `yaml:"swirl"`
	Lift              float64      `yaml:"lift"`
	Free              RegimeConfig `yaml:"free"`
	Formation         RegimeConfig `yaml:"formation"`
	Workers           int          `yaml:"workers"` // 0 = GOMAXPROCS
	ParallelThreshold int          `yaml:"parallel_threshold"`
}

// PointerConfig holds pointer velocity smoothing.
type PointerConfig struct {
	VelocityGain float64 `yaml:"velocity_gain"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Decay        float64 `yaml:"decay"`
}

// VisualConfig holds cosmetic parameters.
type VisualConfig struct {
	ScaleBlendFrequency float64 `yaml:"scale_blend_frequency"`
	ScaleBlendDamping   float64 `yaml:"scale_blend_damping"`
}

// ResizeConfig holds resize coalescing.
type ResizeConfig struct {
	QuietPeriod float64 `yaml:"quiet_period"` // Seconds without resize events before re-planning
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	PerfWindow  int     `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ColorToleranceSq float64 // Segment.ColorTolerance squared
	MaxDT32          float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate reports every impossible value at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Swarm.Count <= 0 {
		errs = append(errs, fmt.Errorf("swarm.count must be positive, got %d", c.Swarm.Count))
	}
	if c.Swarm.Capacity < c.Swarm.Count {
		errs = append(errs, fmt.Errorf("swarm.capacity %d is below swarm.count %d", c.Swarm.Capacity, c.Swarm.Count))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.FOV))
	}
	if c.Camera.Distance <= 0 {
		errs = append(errs, fmt.Errorf("camera.distance must be positive, got %v", c.Camera.Distance))
	}
	if c.Sample.MaxPixels < 0 {
		errs = append(errs, fmt.Errorf("sample.max_pixels must not be negative, got %d", c.Sample.MaxPixels))
	}
	if c.Sample.MinSide <= 0 || c.Sample.MinSide > c.Sample.MaxSide {
		errs = append(errs, fmt.Errorf("sample sides invalid: min %d, max %d", c.Sample.MinSide, c.Sample.MaxSide))
	}
	if c.Segment.CloseRadius < 0 {
		errs = append(errs, fmt.Errorf("segment.close_radius must not be negative, got %d", c.Segment.CloseRadius))
	}
	if c.Segment.ColorTolerance < 0 {
		errs = append(errs, fmt.Errorf("segment.color_tolerance must not be negative, got %v", c.Segment.ColorTolerance))
	}
	if c.Physics.InteractionRadius <= 0 {
		errs = append(errs, fmt.Errorf("physics.interaction_radius must be positive, got %v", c.Physics.InteractionRadius))
	}
	if c.Formation.MinScale > c.Formation.MaxScale {
		errs = append(errs, fmt.Errorf("formation scale bounds inverted: min %v, max %v", c.Formation.MinScale, c.Formation.MaxScale))
	}
	return errors.Join(errs...)
}

// ComputeDerived recalculates derived values. Call it after mutating a loaded config.
func (c *Config) ComputeDerived() {
	c.Derived.ColorToleranceSq = c.Segment.ColorTolerance * c.Segment.ColorTolerance
	c.Derived.MaxDT32 = float32(c.Physics.MaxDT)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
