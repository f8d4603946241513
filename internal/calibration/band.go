// Package calibration provides the HSV colour band used to segment the marker.
package calibration

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Channel bounds for an OpenCV 8-bit HSV image.
const (
	MaxHue        = 180
	MaxSaturation = 255
	MaxValue      = 255
)

// Band is an inclusive HSV range. Lower may exceed Upper on any channel; the
// range test then simply matches nothing on that channel.
type Band struct {
	UpperHue int `json:"upper_hue"`
	UpperSat int `json:"upper_sat"`
	UpperVal int `json:"upper_val"`
	LowerHue int `json:"lower_hue"`
	LowerSat int `json:"lower_sat"`
	LowerVal int `json:"lower_val"`
}

// FromValues builds a Band from the six values in file order:
// upper hue, upper saturation, upper value, lower hue, lower saturation, lower value.
func FromValues(v [6]int) Band {
	return Band{
		UpperHue: v[0],
		UpperSat: v[1],
		UpperVal: v[2],
		LowerHue: v[3],
		LowerSat: v[4],
		LowerVal: v[5],
	}
}

// Values returns the band in file order.
func (b Band) Values() [6]int {
	return [6]int{b.UpperHue, b.UpperSat, b.UpperVal, b.LowerHue, b.LowerSat, b.LowerVal}
}

// Lower returns the lower bound as a scalar for gocv.InRangeWithScalar.
func (b Band) Lower() gocv.Scalar {
	return gocv.NewScalar(float64(b.LowerHue), float64(b.LowerSat), float64(b.LowerVal), 0)
}

// Upper returns the upper bound as a scalar for gocv.InRangeWithScalar.
func (b Band) Upper() gocv.Scalar {
	return gocv.NewScalar(float64(b.UpperHue), float64(b.UpperSat), float64(b.UpperVal), 0)
}

// Validate checks every value against its channel bound.
// It does not require Lower <= Upper.
func (b Band) Validate() error {
	limits := [6]int{MaxHue, MaxSaturation, MaxValue, MaxHue, MaxSaturation, MaxValue}
	for i, v := range b.Values() {
		if v < 0 || v > limits[i] {
			return fmt.Errorf("%w: %s = %d, want 0..%d", ErrMalformed, fieldNames[i], v, limits[i])
		}
	}
	return nil
}

// fieldNames matches the trackbar labels of the calibration window.
var fieldNames = [6]string{
	"Upper Hue",
	"Upper Saturation",
	"Upper Value",
	"Lower Hue",
	"Lower Saturation",
	"Lower Value",
}

// Source supplies the band to use for the current frame.
type Source interface {
	Band() Band
}

// Static is a Source that always returns the same band.
type Static Band

// Band returns the fixed band.
func (s Static) Band() Band {
	return Band(s)
}
