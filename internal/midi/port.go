// Package midi provides the note output sink backed by a system MIDI port.
package midi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap"
)

// Output defaults. Velocity is fixed; triggers carry no dynamics.
const (
	DefaultChannel  = 0
	DefaultVelocity = 100
)

// ErrNoPort is returned when no output port matches the selector or it cannot be opened.
var ErrNoPort = errors.New("no usable MIDI output port")

// DeviceInfo describes an available output port.
type DeviceInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Sink accepts note-on/note-off messages.
type Sink interface {
	NoteOn(note uint8) error
	NoteOff(note uint8) error
	Close() error
}

// Port is a Sink writing to a gomidi output port.
type Port struct {
	out      drivers.Out
	channel  uint8
	velocity uint8
	logger   *zap.Logger
	mu       sync.Mutex
}

// ListOutputs returns the output ports known to the registered driver.
func ListOutputs() []DeviceInfo {
	outs := midi.GetOutPorts()
	devices := make([]DeviceInfo, 0, len(outs))
	for _, out := range outs {
		devices = append(devices, DeviceInfo{Number: out.Number(), Name: out.String()})
	}
	return devices
}

// Select picks an output port from outs. An empty selector picks the first
// port, a number picks by port number, anything else matches the port name
// exactly and then as a case-insensitive substring.
func Select(outs []drivers.Out, selector string) (drivers.Out, error) {
	if len(outs) == 0 {
		return nil, fmt.Errorf("%w: no output ports available", ErrNoPort)
	}

	selector = strings.TrimSpace(selector)
	if selector == "" {
		return outs[0], nil
	}

	if n, err := strconv.Atoi(selector); err == nil {
		for _, out := range outs {
			if out.Number() == n {
				return out, nil
			}
		}
		return nil, fmt.Errorf("%w: no port number %d", ErrNoPort, n)
	}

	for _, out := range outs {
		if out.String() == selector {
			return out, nil
		}
	}
	want := strings.ToLower(selector)
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), want) {
			return out, nil
		}
	}

	return nil, fmt.Errorf("%w: no port matching %q", ErrNoPort, selector)
}

// Open selects an output port from the registered driver and opens it.
func Open(selector string, logger *zap.Logger) (*Port, error) {
	out, err := Select(midi.GetOutPorts(), selector)
	if err != nil {
		return nil, err
	}
	return NewPort(out, logger)
}

// NewPort opens out and wraps it as a Sink.
func NewPort(out drivers.Out, logger *zap.Logger) (*Port, error) {
	if !out.IsOpen() {
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("%w: open %q: %w", ErrNoPort, out.String(), err)
		}
	}

	logger.Info("MIDI output opened", zap.String("port", out.String()), zap.Int("number", out.Number()))

	return &Port{
		out:      out,
		channel:  DefaultChannel,
		velocity: DefaultVelocity,
		logger:   logger,
	}, nil
}

// NoteOn sends a note-on with the fixed velocity.
func (p *Port) NoteOn(note uint8) error {
	return p.send(midi.NoteOn(p.channel, note, p.velocity))
}

// NoteOff sends a note-off for note.
func (p *Port) NoteOff(note uint8) error {
	return p.send(midi.NoteOff(p.channel, note))
}

func (p *Port) send(msg midi.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.out.Send(msg); err != nil {
		return fmt.Errorf("send %s to %q: %w", msg.String(), p.out.String(), err)
	}
	return nil
}

// Name returns the port name.
func (p *Port) Name() string {
	return p.out.String()
}

// Close closes the underlying port.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.out.IsOpen() {
		return nil
	}
	return p.out.Close()
}
