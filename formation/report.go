package formation

import (
	"fmt"
	"log/slog"
)

// Report is the user-facing outcome of a formation.
type Report struct {
	Formed  int
	Colored int
	GridW   int
	GridH   int
	Scale   float32
	WorldW  float32
	WorldH  float32
}

// Status returns the status line shown to the user.
func (r Report) Status() string {
	return fmt.Sprintf("Formed: %d butterflies (%d colored)", r.Formed, r.Colored)
}

// LogValue implements slog.LogValuer for structured logging.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("formed", r.Formed),
		slog.Int("colored", r.Colored),
		slog.Int("grid_w", r.GridW),
		slog.Int("grid_h", r.GridH),
		slog.Float64("scale", float64(r.Scale)),
		slog.Float64("world_w", float64(r.WorldW)),
		slog.Float64("world_h", float64(r.WorldH)),
	)
}
