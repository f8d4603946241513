// Package fixture builds synthetic camera frames for tests.
package fixture

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Frame geometry matching the camera resolution.
const (
	Width  = 640
	Height = 480
	// BlobRadius is the half-size of the square marker drawn by BlobFrame.
	BlobRadius = 12
)

// Yellow is a highlighter-like marker colour (hue 30 in OpenCV HSV).
var Yellow = color.RGBA{R: 255, G: 255, A: 255}

// BlankFrame returns a black BGR frame.
func BlankFrame() *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), Height, Width, gocv.MatTypeCV8UC3)
	return &mat
}

// BlobFrame returns a black frame with a filled square of colour c centred on p.
// A negative p yields a frame without a marker.
func BlobFrame(p image.Point, c color.RGBA) *gocv.Mat {
	frame := BlankFrame()
	if p.X < 0 || p.Y < 0 {
		return frame
	}
	r := image.Rect(p.X-BlobRadius, p.Y-BlobRadius, p.X+BlobRadius, p.Y+BlobRadius)
	gocv.Rectangle(frame, r, c, -1)
	return frame
}

// Mirrored returns the position p appears at after a horizontal flip, so a
// marker drawn there lands on p once the frame loop mirrors it.
func Mirrored(p image.Point) image.Point {
	if p.X < 0 {
		return p
	}
	return image.Pt(Width-1-p.X, p.Y)
}

// Sequence builds one yellow BlobFrame per point.
func Sequence(points ...image.Point) []*gocv.Mat {
	frames := make([]*gocv.Mat, len(points))
	for i, p := range points {
		frames[i] = BlobFrame(p, Yellow)
	}
	return frames
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
