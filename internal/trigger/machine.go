// Package trigger turns per-frame zone classifications into edge-triggered note events.
package trigger

import (
	"time"

	"github.com/ayusman/auramidi/internal/zone"
)

// State is the arm state of the machine.
type State int

const (
	// Idle means armed: the next pattern-zone entry fires.
	Idle State = iota
	// PatternHeld means the marker is dwelling in a pattern zone that already fired.
	PatternHeld
)

// String returns the state name.
func (s State) String() string {
	if s == PatternHeld {
		return "pattern-held"
	}
	return "idle"
}

// Trigger is a note the machine decided to fire this frame.
type Trigger struct {
	Note  uint8
	Zone  zone.ID
	Track int
}

// Event is a fired trigger as seen by listeners.
type Event struct {
	Note  uint8     `json:"note"`
	Zone  zone.ID   `json:"zone"`
	Track int       `json:"track"`
	At    time.Time `json:"at"`
}

// Machine is the edge-triggered zone state machine. It owns the arm state and
// the track selection; the zero value is not usable, use NewMachine.
type Machine struct {
	notes Notes
	state State
	held  zone.ID
	track int
}

// NewMachine returns an armed machine with track 0 selected.
func NewMachine(notes Notes) *Machine {
	return &Machine{notes: notes}
}

// Step advances the machine by one frame. It returns the trigger to emit, if any.
//
//	Idle,           track t        -> Idle,            select t
//	Idle,           pattern p      -> PatternHeld(p),  fire p
//	Idle,           none           -> Idle
//	PatternHeld(p), pattern p      -> PatternHeld(p)
//	PatternHeld(p), pattern q != p -> PatternHeld(q),  fire q
//	PatternHeld(p), track t / none -> Idle
//
// Leaving a pattern zone straight into a track zone only re-arms; the track is
// selected on the next frame the marker is still there.
func (m *Machine) Step(c zone.Classification) (Trigger, bool) {
	switch c.Group() {
	case zone.GroupPattern:
		id := c.Zone.ID
		if m.state == PatternHeld && m.held == id {
			return Trigger{}, false
		}
		m.state = PatternHeld
		m.held = id
		return Trigger{
			Note:  m.notes.Note(m.track, id.Index),
			Zone:  id,
			Track: m.track,
		}, true

	case zone.GroupTrack:
		if m.state == Idle {
			m.track = c.Zone.ID.Index
		}
		m.rearm()
		return Trigger{}, false

	default:
		m.rearm()
		return Trigger{}, false
	}
}

func (m *Machine) rearm() {
	m.state = Idle
	m.held = zone.ID{}
}

// State returns the current arm state.
func (m *Machine) State() State {
	return m.state
}

// Armed reports whether the next pattern entry will fire.
func (m *Machine) Armed() bool {
	return m.state == Idle
}

// Held returns the pattern zone being dwelt in, if any.
func (m *Machine) Held() (zone.ID, bool) {
	return m.held, m.state == PatternHeld
}

// Track returns the selected track index.
func (m *Machine) Track() int {
	return m.track
}
