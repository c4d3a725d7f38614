package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/goldswarm/config"
	"github.com/pthm-cable/goldswarm/formation"
	"github.com/pthm-cable/goldswarm/sample"
	"github.com/pthm-cable/goldswarm/segment"
	"github.com/pthm-cable/goldswarm/swarm"
	"github.com/pthm-cable/goldswarm/systems"
)

// SegmentParams builds segmentation constants from config.
func SegmentParams(cfg *config.Config) segment.Params {
	c := cfg.Segment
	return segment.Params{
		AlphaThreshold:       uint8(mgl32.Clamp(float32(c.AlphaThreshold), 0, 255)),
		TransparencyFraction: c.TransparencyFraction,
		EdgeThreshold:        uint8(mgl32.Clamp(float32(c.EdgeThreshold), 0, 255)),
		ColorToleranceSq:     int(cfg.Derived.ColorToleranceSq),
		CloseRadius:          c.CloseRadius,
	}
}

// SampleParams builds grid bounds from config.
func SampleParams(cfg *config.Config) sample.Params {
	return sample.Params{
		MinSide:              cfg.Sample.MinSide,
		MaxSide:              cfg.Sample.MaxSide,
		FreeFlightOversample: cfg.Sample.FreeFlightOversample,
		MaxPixels:            cfg.Sample.MaxPixels,
		Segment:              SegmentParams(cfg),
	}
}

// SwarmParams builds arena sizing from config.
func SwarmParams(cfg *config.Config) swarm.Params {
	c := cfg.Swarm
	return swarm.Params{
		Count:             c.Count,
		Capacity:          c.Capacity,
		HomeExtent:        mgl32.Vec3{float32(c.HomeExtent[0]), float32(c.HomeExtent[1]), float32(c.HomeExtent[2])},
		FlapSpeedMin:      float32(c.FlapSpeedMin),
		FlapSpeedRange:    float32(c.FlapSpeedRange),
		ScaleMin:          float32(c.ScaleMin),
		ScaleRange:        float32(c.ScaleRange),
		YawJitter:         float32(c.YawJitter),
		ResetVelocityKeep: float32(cfg.Formation.ResetVelocityKeep),
	}
}

// FormationParams builds the mapping constants from config.
func FormationParams(cfg *config.Config) formation.Params {
	c := cfg.Formation
	return formation.Params{
		GeoSize:           float32(c.GeoSize),
		SpacingMultiplier: float32(c.SpacingMultiplier),
		MinScale:          float32(c.MinScale),
		MaxScale:          float32(c.MaxScale),
		DepthJitter:       float32(c.DepthJitter),
		VelocityKeep:      float32(c.VelocityKeep),
	}
}

func regime(c config.RegimeConfig) systems.RegimeParams {
	return systems.RegimeParams{
		Spring:       float32(c.Spring),
		SpringZ:      float32(c.SpringZ),
		Damping:      float32(c.Damping),
		PointerScale: float32(c.PointerScale),
	}
}

// PhysicsParams builds integrator constants from config.
func PhysicsParams(cfg *config.Config) systems.PhysicsParams {
	c := cfg.Physics
	return systems.PhysicsParams{
		MaxDT:             cfg.Derived.MaxDT32,
		FrameRate:         float32(c.FrameRate),
		Speed:             float32(c.Speed),
		Radius:            float32(c.InteractionRadius),
		Push:              float32(c.Push),
		PushZ:             float32(c.PushZ),
		Drag:              float32(c.Drag),
		Swirl:             float32(c.Swirl),
		Lift:              float32(c.Lift),
		Free:              regime(c.Free),
		Formation:         regime(c.Formation),
		Workers:           c.Workers,
		ParallelThreshold: c.ParallelThreshold,
	}
}

// PointerParams builds pointer smoothing from config.
func PointerParams(cfg *config.Config) systems.PointerParams {
	return systems.PointerParams{
		VelocityGain: float32(cfg.Pointer.VelocityGain),
		MaxSpeed:     float32(cfg.Pointer.MaxSpeed),
		Decay:        float32(cfg.Pointer.Decay),
	}
}

// VisualParams builds cosmetic constants from config.
func VisualParams(cfg *config.Config) systems.VisualParams {
	return systems.VisualParams{
		ScaleBlendFrequency: cfg.Visual.ScaleBlendFrequency,
		ScaleBlendDamping:   cfg.Visual.ScaleBlendDamping,
	}
}
