// Package zone defines the fixed on-screen trigger zones and classifies marker
// positions against them.
package zone

import (
	"errors"
	"fmt"
	"image"
)

// Kind tags what a zone does.
type Kind int

const (
	// Pattern zones fire a note when entered.
	Pattern Kind = iota
	// PatternMute behaves exactly like Pattern but is highlighted differently.
	PatternMute
	// Track zones select the base note for later pattern triggers.
	Track
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Pattern:
		return "pattern"
	case PatternMute:
		return "mute"
	case Track:
		return "track"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "pattern":
		return Pattern, nil
	case "mute":
		return PatternMute, nil
	case "track":
		return Track, nil
	default:
		return 0, fmt.Errorf("unknown zone kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Group identifies the two disjoint zone groups.
type Group int

const (
	// GroupNone is used for classifications outside every zone.
	GroupNone Group = iota
	// GroupPattern contains Pattern and PatternMute zones.
	GroupPattern
	// GroupTrack contains Track zones.
	GroupTrack
)

// Group returns the group the kind belongs to.
func (k Kind) Group() Group {
	switch k {
	case Pattern, PatternMute:
		return GroupPattern
	case Track:
		return GroupTrack
	default:
		return GroupNone
	}
}

// ID is the stable identity of a zone. Index is the position within its group.
type ID struct {
	Kind  Kind `json:"kind"`
	Index int  `json:"index"`
}

// String formats the id as kind:index.
func (id ID) String() string {
	return fmt.Sprintf("%s:%d", id.Kind, id.Index)
}

// Point is a position in frame pixels.
type Point struct {
	X float64
	Y float64
}

// Zone is a rectangular screen region. Both Min and Max are inside the zone.
type Zone struct {
	ID    ID
	Min   image.Point
	Max   image.Point
	Label string
}

// Contains reports whether p lies within the zone, edges included.
func (z Zone) Contains(p Point) bool {
	return p.X >= float64(z.Min.X) && p.X <= float64(z.Max.X) &&
		p.Y >= float64(z.Min.Y) && p.Y <= float64(z.Max.Y)
}

// Rect returns the zone as an image.Rectangle for drawing. image.Rectangle
// excludes Max, so one pixel is added on each axis.
func (z Zone) Rect() image.Rectangle {
	return image.Rect(z.Min.X, z.Min.Y, z.Max.X+1, z.Max.Y+1)
}

func (z Zone) overlaps(o Zone) bool {
	return z.Min.X <= o.Max.X && o.Min.X <= z.Max.X &&
		z.Min.Y <= o.Max.Y && o.Min.Y <= z.Max.Y
}

// ErrInvalidLayout is returned by Layout.Validate.
var ErrInvalidLayout = errors.New("invalid zone layout")
