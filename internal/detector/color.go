package detector

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/auramidi/internal/calibration"
	"github.com/ayusman/auramidi/internal/zone"
)

// KernelSize is the side of the square structuring element used for mask cleanup.
const KernelSize = 5

// Segment converts frame to HSV, keeps the pixels inside band and cleans the
// result up. The caller is responsible for closing the returned Mat.
//
// Cleanup order is fixed:
// 1. Erode to drop speckle noise
// 2. Open to consolidate the blob shape
// 3. Dilate to restore the size lost to erosion
//
// An empty frame, or one that is not 3-channel BGR, yields an empty mask.
func Segment(frame gocv.Mat, band calibration.Band) gocv.Mat {
	mask := gocv.NewMat()
	if frame.Empty() || frame.Channels() != 3 {
		return mask
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	gocv.InRangeWithScalar(hsv, band.Lower(), band.Upper(), &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(KernelSize, KernelSize))
	defer kernel.Close()

	gocv.Erode(mask, &mask, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	gocv.Dilate(mask, &mask, kernel)

	return mask
}

// Locate picks the marker out of a binary mask. Only external contours are
// considered; the one with the largest area wins and the marker is its
// minimal enclosing circle.
//
// Equal areas keep the earliest contour in the order OpenCV returns them,
// which depends on its scan order and is not otherwise specified.
func Locate(mask gocv.Mat) Observation {
	obs, _ := locate(mask)
	return obs
}

// locate is Locate that also reports the number of contours found.
func locate(mask gocv.Mat) (Observation, int) {
	if mask.Empty() {
		return Absent, 0
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	n := contours.Size()
	if n == 0 {
		return Absent, 0
	}

	best := largestContour(contours)
	x, y, radius := gocv.MinEnclosingCircle(contours.At(best))

	return Observation{
		Present: true,
		Center:  zone.Point{X: float64(x), Y: float64(y)},
		Radius:  float64(radius),
	}, n
}

// largestContour returns the index of the contour with maximum area.
func largestContour(contours gocv.PointsVector) int {
	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			best = i
			bestArea = area
		}
	}
	return best
}

// ColorDetector implements Detector with HSV segmentation and contour search.
// It is stateless; the same instance can serve any number of frames.
type ColorDetector struct{}

// NewColorDetector creates a new ColorDetector.
func NewColorDetector() *ColorDetector {
	return &ColorDetector{}
}

// Detect segments the frame and locates the largest blob.
func (d *ColorDetector) Detect(frame *gocv.Mat, band calibration.Band) (Result, error) {
	if frame == nil {
		return Result{Mask: gocv.NewMat()}, nil
	}

	mask := Segment(*frame, band)
	obs, n := locate(mask)

	return Result{Mask: mask, Observation: obs, Contours: n}, nil
}

// Close is a no-op.
func (d *ColorDetector) Close() error {
	return nil
}
