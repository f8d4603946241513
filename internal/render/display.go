package render

import (
	"errors"

	"gocv.io/x/gocv"
)

// QuitKey ends the session.
const QuitKey = 'q'

// NoKey is returned by PollKey when nothing was pressed.
const NoKey = -1

// Window titles.
const (
	MaskWindow  = "Display Mask"
	FrameWindow = "Display Cam"
)

// keyWaitMs is how long each frame waits for a keypress.
const keyWaitMs = 25

// Display presents the mask and the annotated frame and reports keypresses.
type Display interface {
	Show(mask, frame gocv.Mat)
	// PollKey returns the key pressed since the last call, or NoKey.
	PollKey() int
	Close() error
}

// Windows is a Display backed by two HighGUI windows.
type Windows struct {
	mask  *gocv.Window
	frame *gocv.Window
}

// NewWindows opens the mask and camera windows.
func NewWindows() *Windows {
	return &Windows{
		mask:  gocv.NewWindow(MaskWindow),
		frame: gocv.NewWindow(FrameWindow),
	}
}

// Show updates both windows. An empty mask leaves the mask window as it was.
func (w *Windows) Show(mask, frame gocv.Mat) {
	if !mask.Empty() {
		w.mask.IMShow(mask)
	}
	if !frame.Empty() {
		w.frame.IMShow(frame)
	}
}

// PollKey waits briefly for a key. This also pumps the HighGUI event loop.
func (w *Windows) PollKey() int {
	key := w.frame.WaitKey(keyWaitMs)
	if key < 0 {
		return NoKey
	}
	return key & 0xff
}

// Close destroys both windows.
func (w *Windows) Close() error {
	return errors.Join(w.mask.Close(), w.frame.Close())
}

// Headless is a Display that shows nothing and never reports a key.
// The session then ends only through context cancellation.
type Headless struct{}

// Show does nothing.
func (Headless) Show(mask, frame gocv.Mat) {}

// PollKey always returns NoKey.
func (Headless) PollKey() int { return NoKey }

// Close does nothing.
func (Headless) Close() error { return nil }
