// Package detector finds the coloured marker in a camera frame.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/auramidi/internal/calibration"
	"github.com/ayusman/auramidi/internal/zone"
)

// Observation is one frame's marker detection. There is no identity across
// frames: every frame is detected from scratch.
type Observation struct {
	Present bool
	Center  zone.Point
	Radius  float64
}

// Absent is the observation for a frame with no marker.
var Absent = Observation{}

// Result is the output of a single detection.
type Result struct {
	// Mask is the cleaned binary mask. The caller must close it.
	Mask        gocv.Mat
	Observation Observation
	// Contours is the number of external contours found in the mask.
	Contours int
}

// Detector defines the interface for marker detection implementations.
type Detector interface {
	// Detect segments frame with band and locates the marker.
	// A frame without a marker is not an error: it yields an absent observation.
	Detect(frame *gocv.Mat, band calibration.Band) (Result, error)

	// Close releases any resources held by the detector.
	Close() error
}
