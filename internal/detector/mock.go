package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/auramidi/internal/calibration"
	"github.com/ayusman/auramidi/internal/zone"
)

// MockDetector is a test implementation of the Detector interface.
// It replays a scripted sequence of observations, one per Detect call,
// and keeps returning the last one once the script runs out.
type MockDetector struct {
	script []Observation
	next   int
	err    error
	bands  []calibration.Band
}

// NewMockDetector creates a new MockDetector that reports no marker.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetObservations replaces the scripted observations and restarts the script.
func (m *MockDetector) SetObservations(obs ...Observation) {
	m.script = obs
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Bands returns the band passed to every Detect call so far.
func (m *MockDetector) Bands() []calibration.Band {
	return m.bands
}

// Detect returns the next scripted observation with an empty mask.
func (m *MockDetector) Detect(frame *gocv.Mat, band calibration.Band) (Result, error) {
	m.bands = append(m.bands, band)
	if m.err != nil {
		return Result{}, m.err
	}

	obs := Absent
	if len(m.script) > 0 {
		i := m.next
		if i >= len(m.script) {
			i = len(m.script) - 1
		} else {
			m.next++
		}
		obs = m.script[i]
	}

	contours := 0
	if obs.Present {
		contours = 1
	}
	return Result{Mask: gocv.NewMat(), Observation: obs, Contours: contours}, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// At returns a present observation centred on (x, y) with a fixed radius.
func At(x, y float64) Observation {
	return Observation{Present: true, Center: zone.Point{X: x, Y: y}, Radius: 12}
}
