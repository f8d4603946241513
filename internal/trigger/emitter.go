package trigger

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NoteDelay is how long a triggered note sounds before its note-off.
const NoteDelay = 5 * time.Millisecond

// ErrEmit wraps any failure to deliver a note to the output sink.
var ErrEmit = errors.New("failed to emit note")

// Sink accepts note-on/note-off pairs.
type Sink interface {
	NoteOn(note uint8) error
	NoteOff(note uint8) error
}

// Emitter plays a trigger as a short pluck: note-on, a fixed pause, note-off.
// Emit blocks the caller for the whole pause so note-offs can never reorder
// with the next frame's note-on.
type Emitter struct {
	sink   Sink
	delay  time.Duration
	sleep  func(time.Duration)
	logger *zap.Logger
}

// NewEmitter returns an Emitter writing to sink with the standard NoteDelay.
func NewEmitter(sink Sink, logger *zap.Logger) *Emitter {
	return &Emitter{
		sink:   sink,
		delay:  NoteDelay,
		sleep:  time.Sleep,
		logger: logger,
	}
}

// Emit sends note-on, waits, then sends note-off. There is no retry: a sink
// error means the note is lost and is returned wrapped in ErrEmit.
func (e *Emitter) Emit(note uint8) error {
	if err := e.sink.NoteOn(note); err != nil {
		return fmt.Errorf("%w: note-on %d: %w", ErrEmit, note, err)
	}

	e.sleep(e.delay)

	if err := e.sink.NoteOff(note); err != nil {
		return fmt.Errorf("%w: note-off %d: %w", ErrEmit, note, err)
	}

	e.logger.Debug("note emitted", zap.Uint8("note", note), zap.Duration("delay", e.delay))
	return nil
}
