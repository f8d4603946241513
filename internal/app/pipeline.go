package app

import (
	"fmt"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/auramidi/internal/capture"
	"github.com/ayusman/auramidi/internal/render"
	"github.com/ayusman/auramidi/internal/trigger"
)

// processFrame runs one iteration of the loop on frame:
//
//  1. Mirror the frame
//  2. Segment and locate the marker with the current band
//  3. Classify the marker against the zones
//  4. Step the state machine and emit any trigger before going on
//  5. Recompute highlights and draw the overlay
//  6. Show the mask and the annotated frame
//
// The caller owns frame.
func (a *App) processFrame(frame *gocv.Mat) error {
	capture.Mirror(frame)

	band := a.config.Band.Band()
	res, err := a.config.Detector.Detect(frame, band)
	if err != nil {
		return fmt.Errorf("detect marker: %w", err)
	}
	defer res.Mask.Close()

	a.frames.Add(1)
	obs := res.Observation
	if ce := a.logger.Check(zap.DebugLevel, "frame detected"); ce != nil {
		ce.Write(
			zap.Int("contours", res.Contours),
			zap.Bool("present", obs.Present),
			zap.Float64("x", obs.Center.X),
			zap.Float64("y", obs.Center.Y),
		)
	}

	class := a.layout.Classify(obs.Center, obs.Present)

	prevTrack := a.machine.Track()
	trig, fire := a.machine.Step(class)
	if track := a.machine.Track(); track != prevTrack {
		a.logger.Info("track selected", zap.Int("track", track))
	}

	if fire {
		if err := a.emit(trig); err != nil {
			return err
		}
	}

	held, holding := a.machine.Held()
	highlights := render.ComputeHighlights(a.layout, a.machine.Track(), held, holding)
	render.Draw(frame, a.layout, highlights, obs)

	if a.config.OnFrame != nil {
		a.config.OnFrame(*frame)
	}
	a.config.Display.Show(res.Mask, *frame)

	return nil
}

// emit plays the trigger and notifies the listener. The note-off has been
// sent by the time it returns.
func (a *App) emit(trig trigger.Trigger) error {
	if err := a.config.Emitter.Emit(trig.Note); err != nil {
		a.logger.Error("note emit failed", zap.Uint8("note", trig.Note), zap.Error(err))
		return err
	}
	a.triggers.Add(1)

	a.logger.Debug("note triggered",
		zap.Stringer("zone", trig.Zone),
		zap.Int("track", trig.Track),
		zap.Uint8("note", trig.Note),
	)

	if a.config.OnTrigger != nil {
		a.config.OnTrigger(trigger.Event{
			Note:  trig.Note,
			Zone:  trig.Zone,
			Track: trig.Track,
			At:    a.now(),
		})
	}
	return nil
}
