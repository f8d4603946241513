package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultProfile is the profile key used by the stock calibration file.
const DefaultProfile = "highlighter"

var (
	// ErrProfileNotFound is returned when the calibration file has no entry for the profile.
	ErrProfileNotFound = errors.New("calibration profile not found")
	// ErrMalformed is returned when a profile entry is not six in-range integers.
	ErrMalformed = errors.New("malformed calibration profile")
)

// Load reads the band for profile from a JSON calibration file of the form
//
//	{"highlighter": [upperHue, upperSat, upperVal, lowerHue, lowerSat, lowerVal]}
//
// There is no fallback band: any problem with the file is returned as an error.
func Load(path, profile string) (Band, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Band{}, fmt.Errorf("failed to read calibration file: %w", err)
	}
	return Parse(data, profile)
}

// Parse decodes the band for profile from calibration file contents.
func Parse(data []byte, profile string) (Band, error) {
	var profiles map[string]json.RawMessage
	if err := json.Unmarshal(data, &profiles); err != nil {
		return Band{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	raw, ok := profiles[profile]
	if !ok {
		return Band{}, fmt.Errorf("%w: %q", ErrProfileNotFound, profile)
	}

	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return Band{}, fmt.Errorf("%w: profile %q: %v", ErrMalformed, profile, err)
	}
	if len(values) != 6 {
		return Band{}, fmt.Errorf("%w: profile %q has %d values, want 6", ErrMalformed, profile, len(values))
	}

	band := FromValues([6]int(values))
	if err := band.Validate(); err != nil {
		return Band{}, fmt.Errorf("profile %q: %w", profile, err)
	}

	return band, nil
}
