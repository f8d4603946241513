package trigger

import "github.com/ayusman/auramidi/internal/zone"

// Notes maps a (track, pattern) pair to a MIDI note number.
type Notes struct {
	TrackBase     [zone.TrackCount]uint8
	PatternOffset [zone.PatternCount]uint8
}

// DefaultNotes spaces the track bases by the number of patterns so every
// (track, pattern) cell gets its own note, starting at C2. The mute pattern
// uses the last offset.
func DefaultNotes() Notes {
	return Notes{
		TrackBase:     [zone.TrackCount]uint8{36, 41, 46, 51},
		PatternOffset: [zone.PatternCount]uint8{0, 1, 2, 3, 4},
	}
}

// Note returns base(track) + offset(pattern). Out-of-range indices fall back to 0.
func (n Notes) Note(track, pattern int) uint8 {
	var base, offset uint8
	if track >= 0 && track < len(n.TrackBase) {
		base = n.TrackBase[track]
	}
	if pattern >= 0 && pattern < len(n.PatternOffset) {
		offset = n.PatternOffset[pattern]
	}
	return (base + offset) & 0x7f
}
