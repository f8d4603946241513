// Package render draws the zone overlay and presents frames to the user.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/auramidi/internal/detector"
	"github.com/ayusman/auramidi/internal/zone"
)

// Shade is the highlight state of one zone.
type Shade int

const (
	Neutral Shade = iota
	Active
	Muted
)

// Overlay colours.
var (
	NeutralColor = color.RGBA{R: 122, G: 122, B: 122, A: 255}
	ActiveColor  = color.RGBA{G: 255, A: 255}
	MutedColor   = color.RGBA{R: 255, A: 255}
	LabelColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	MarkerColor  = color.RGBA{R: 255, G: 255, A: 255}
)

// Color returns the fill colour for a shade.
func (s Shade) Color() color.RGBA {
	switch s {
	case Active:
		return ActiveColor
	case Muted:
		return MutedColor
	default:
		return NeutralColor
	}
}

// Highlights holds one shade per zone, keyed by zone id.
type Highlights map[zone.ID]Shade

// ComputeHighlights derives every zone's shade for this frame from scratch.
// Each group is reset to neutral, then the selected track and the held
// pattern zone are lit. The mute zone lights with the muted shade.
func ComputeHighlights(layout zone.Layout, track int, held zone.ID, holding bool) Highlights {
	h := make(Highlights, len(layout))
	for _, z := range layout {
		h[z.ID] = Neutral
	}

	for _, z := range layout.Zones(zone.GroupTrack) {
		if z.ID.Index == track {
			h[z.ID] = Active
		}
	}

	if holding {
		if held.Kind == zone.PatternMute {
			h[held] = Muted
		} else {
			h[held] = Active
		}
	}

	return h
}

// Draw paints the zones, their labels and the detected marker onto frame.
func Draw(frame *gocv.Mat, layout zone.Layout, h Highlights, obs detector.Observation) {
	for _, z := range layout {
		gocv.Rectangle(frame, z.Rect(), h[z.ID].Color(), -1)
		gocv.PutText(frame, z.Label, labelOrigin(z), gocv.FontHersheySimplex, 0.4, LabelColor, 1)
	}

	if obs.Present {
		center := image.Pt(int(obs.Center.X), int(obs.Center.Y))
		gocv.Circle(frame, center, int(obs.Radius), MarkerColor, 2)
		gocv.Circle(frame, center, 3, MarkerColor, -1)
	}
}

// labelOrigin places the label baseline near the bottom-left corner of the zone.
func labelOrigin(z zone.Zone) image.Point {
	return image.Pt(z.Min.X+4, z.Max.Y-8)
}
