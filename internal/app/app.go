// Package app runs the frame loop that ties capture, detection, zone
// classification, note emission and display together.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/auramidi/internal/calibration"
	"github.com/ayusman/auramidi/internal/capture"
	"github.com/ayusman/auramidi/internal/detector"
	"github.com/ayusman/auramidi/internal/render"
	"github.com/ayusman/auramidi/internal/trigger"
	"github.com/ayusman/auramidi/internal/zone"
)

// MaxReadFailures is the number of consecutive failed frame reads after which
// the camera is considered lost.
const MaxReadFailures = 10

// ErrFrameSource is returned by Run when the camera stops delivering frames.
var ErrFrameSource = errors.New("frame source failed")

// Emitter plays a single note trigger. It blocks until the note is complete.
type Emitter interface {
	Emit(note uint8) error
}

// Config holds the collaborators of the frame loop.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	// Band is consulted once per frame, so live trackbar edits apply immediately.
	Band    calibration.Source
	Display render.Display
	Emitter Emitter

	// Layout defaults to zone.Default(). Notes defaults to trigger.DefaultNotes().
	Layout zone.Layout
	Notes  *trigger.Notes

	Logger *zap.Logger

	// OnTrigger is called synchronously after each emitted note.
	OnTrigger func(trigger.Event)
	// OnFrame is called synchronously with the annotated frame. The Mat is only
	// valid for the duration of the call.
	OnFrame func(gocv.Mat)
}

// App is the frame loop. It owns the trigger state machine; nothing else
// mutates it, and Run must not be called concurrently.
type App struct {
	config  Config
	layout  zone.Layout
	machine *trigger.Machine
	logger  *zap.Logger
	now     func() time.Time

	frames   atomic.Int64
	triggers atomic.Int64
}

// New validates the configuration and returns an App ready to Run.
func New(config Config) (*App, error) {
	switch {
	case config.Camera == nil:
		return nil, errors.New("app: camera is required")
	case config.Detector == nil:
		return nil, errors.New("app: detector is required")
	case config.Band == nil:
		return nil, errors.New("app: band source is required")
	case config.Emitter == nil:
		return nil, errors.New("app: emitter is required")
	}

	if config.Display == nil {
		config.Display = render.Headless{}
	}

	layout := config.Layout
	if layout == nil {
		layout = zone.Default()
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	notes := trigger.DefaultNotes()
	if config.Notes != nil {
		notes = *config.Notes
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &App{
		config:  config,
		layout:  layout,
		machine: trigger.NewMachine(notes),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Run processes frames until the quit key is pressed or ctx is cancelled, both
// of which return nil. It returns an error when a note cannot be emitted, when
// detection fails, or after MaxReadFailures consecutive failed reads.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("frame loop started", zap.Int("zones", len(a.layout)))
	defer func() {
		a.logger.Info("frame loop stopped",
			zap.Int64("frames", a.frames.Load()),
			zap.Int64("triggers", a.triggers.Load()),
		)
	}()

	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			failures++
			a.logger.Warn("frame read failed", zap.Int("consecutive", failures), zap.Error(err))
			if failures >= MaxReadFailures {
				return fmt.Errorf("%w: %d consecutive reads: %w", ErrFrameSource, failures, err)
			}
			continue
		}
		failures = 0

		err = a.processFrame(frame)
		frame.Close()
		if err != nil {
			return err
		}

		if a.config.Display.PollKey() == render.QuitKey {
			a.logger.Info("quit key pressed")
			return nil
		}
	}
}

// Layout returns the zone layout in use.
func (a *App) Layout() zone.Layout {
	return a.layout
}

// Frames returns the number of frames processed so far. Safe for concurrent use.
func (a *App) Frames() int64 {
	return a.frames.Load()
}

// Triggers returns the number of notes emitted so far. Safe for concurrent use.
func (a *App) Triggers() int64 {
	return a.triggers.Load()
}
