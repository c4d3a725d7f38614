package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SwarmInfo is the data shown by the stats panel.
type SwarmInfo struct {
	Mode           string
	Active         int
	Capacity       int
	Foreground     int
	FormationScale float32
	VisualScale    float32
	Blend          float32
	KineticEnergy  float64
	PointerSpeed   float32
	Tint           rl.Color
}

func info(d any) SwarmInfo { return d.(SwarmInfo) }

func formed(d any) bool { return info(d).Mode == "formation" }

// SwarmPanel describes the stats panel.
var SwarmPanel = PanelDescriptor{
	Title: "Swarm",
	Width: 240,
	Sections: []SectionDescriptor{
		{
			Fields: []FieldDescriptor{
				{Label: "Mode", Widget: WidgetText, TextGetter: func(d any) string { return info(d).Mode }},
				{Label: "Active", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d / %d", info(d).Active, info(d).Capacity)
				}},
				{Label: "Fill", Widget: WidgetBar, Getter: func(d any) float32 {
					s := info(d)
					if s.Capacity == 0 {
						return 0
					}
					return float32(s.Active) / float32(s.Capacity)
				}},
				{Label: "Material", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return info(d).Tint }},
			},
		},
		{
			Title:   "Formation",
			Visible: formed,
			Fields: []FieldDescriptor{
				{Label: "Colored", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(info(d).Foreground) }},
				{Label: "Scale", Widget: WidgetText, Format: "%.3f", Getter: func(d any) float32 { return info(d).FormationScale }},
			},
		},
		{
			Title: "Motion",
			Fields: []FieldDescriptor{
				{Label: "Size blend", Widget: WidgetBar, Getter: func(d any) float32 { return info(d).Blend }},
				{Label: "Shared size", Widget: WidgetText, Format: "%.3f", Getter: func(d any) float32 { return info(d).VisualScale }},
				{Label: "Kinetic", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 { return float32(info(d).KineticEnergy) }},
				{Label: "Pointer", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return info(d).PointerSpeed }},
			},
		},
	},
}
