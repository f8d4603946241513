package zone

import (
	"fmt"
	"image"
)

// Default layout geometry, in pixels of a 640x480 mirrored frame.
const (
	PatternCount = 5
	TrackCount   = 4

	zoneSize = 80 // side of each square zone
	zoneStep = 95 // distance between the starts of neighbouring zones
	bandEdge = 1  // patterns start at y=1, tracks at x=1
)

// Layout is an ordered set of zones. Order is the classification order:
// the first zone containing a point wins.
type Layout []Zone

// Default returns the fixed layout: four track zones down the left edge,
// checked first, then five pattern zones along the top edge. The last
// pattern zone is the mute zone.
func Default() Layout {
	layout := make(Layout, 0, TrackCount+PatternCount)

	for i := 0; i < TrackCount; i++ {
		y := zoneSize + i*zoneStep
		layout = append(layout, Zone{
			ID:    ID{Kind: Track, Index: i},
			Min:   image.Pt(bandEdge, y),
			Max:   image.Pt(zoneSize, y+zoneSize),
			Label: fmt.Sprintf("Track %d", i+1),
		})
	}

	for i := 0; i < PatternCount; i++ {
		x := zoneSize + i*zoneStep
		z := Zone{
			ID:    ID{Kind: Pattern, Index: i},
			Min:   image.Pt(x, bandEdge),
			Max:   image.Pt(x+zoneSize, zoneSize),
			Label: fmt.Sprintf("Pattern %d", i+1),
		}
		if i == PatternCount-1 {
			z.ID.Kind = PatternMute
			z.Label = "Mute"
		}
		layout = append(layout, z)
	}

	return layout
}

// Classification is the result of classifying one frame's marker.
// In is false when the marker is absent or outside every zone.
type Classification struct {
	Zone Zone
	In   bool
}

// Group returns the group of the matched zone, or GroupNone.
func (c Classification) Group() Group {
	if !c.In {
		return GroupNone
	}
	return c.Zone.ID.Kind.Group()
}

// None is the classification for an absent marker or empty space.
var None = Classification{}

// Classify returns the first zone in zones that contains p.
func Classify(p Point, zones []Zone) Classification {
	for _, z := range zones {
		if z.Contains(p) {
			return Classification{Zone: z, In: true}
		}
	}
	return None
}

// Classify classifies a marker observation. An absent marker is never in a zone.
func (l Layout) Classify(p Point, present bool) Classification {
	if !present {
		return None
	}
	return Classify(p, l)
}

// Zones returns the zones of the given group in layout order.
func (l Layout) Zones(g Group) []Zone {
	var out []Zone
	for _, z := range l {
		if z.ID.Kind.Group() == g {
			out = append(out, z)
		}
	}
	return out
}

// Validate checks that every zone is non-empty, ids are unique, and no two
// zones of the same group overlap.
func (l Layout) Validate() error {
	seen := make(map[ID]bool, len(l))
	for i, z := range l {
		if z.Max.X < z.Min.X || z.Max.Y < z.Min.Y {
			return fmt.Errorf("%w: zone %s is empty", ErrInvalidLayout, z.ID)
		}
		if seen[z.ID] {
			return fmt.Errorf("%w: duplicate zone %s", ErrInvalidLayout, z.ID)
		}
		seen[z.ID] = true

		for _, o := range l[i+1:] {
			if z.ID.Kind.Group() == o.ID.Kind.Group() && z.overlaps(o) {
				return fmt.Errorf("%w: zones %s and %s overlap", ErrInvalidLayout, z.ID, o.ID)
			}
		}
	}
	return nil
}
