package calibration

import "gocv.io/x/gocv"

// WindowName is the title of the live calibration window.
const WindowName = "Set HSV"

// Trackbars exposes the band as six HighGUI sliders so it can be tuned while
// the camera is running. Slider changes are never written back to the file.
type Trackbars struct {
	window *gocv.Window
	bars   [6]*gocv.Trackbar
}

// NewTrackbars opens the calibration window and seeds each slider from initial.
func NewTrackbars(initial Band) *Trackbars {
	t := &Trackbars{window: gocv.NewWindow(WindowName)}

	limits := [6]int{MaxHue, MaxSaturation, MaxValue, MaxHue, MaxSaturation, MaxValue}
	values := initial.Values()
	for i, name := range fieldNames {
		t.bars[i] = t.window.CreateTrackbar(name, limits[i])
		t.bars[i].SetPos(values[i])
	}

	return t
}

// Band reads the current slider positions.
func (t *Trackbars) Band() Band {
	var v [6]int
	for i, bar := range t.bars {
		v[i] = bar.GetPos()
	}
	return FromValues(v)
}

// Close destroys the calibration window.
func (t *Trackbars) Close() error {
	return t.window.Close()
}
