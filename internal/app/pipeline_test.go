package app

import (
	"context"
	"image"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/ayusman/auramidi/internal/calibration"
	"github.com/ayusman/auramidi/internal/capture"
	"github.com/ayusman/auramidi/internal/detector"
	"github.com/ayusman/auramidi/internal/fixture"
	"github.com/ayusman/auramidi/internal/midi"
	"github.com/ayusman/auramidi/internal/trigger"
)

var noMarker = image.Pt(-1, -1)

// runFrames plays frames through the real colour detector and returns the
// notes that were switched on.
func runFrames(t *testing.T, band calibration.Band, points ...image.Point) []uint8 {
	t.Helper()

	mirrored := make([]image.Point, len(points))
	for i, p := range points {
		mirrored[i] = fixture.Mirrored(p)
	}
	frames := fixture.Sequence(mirrored...)
	defer fixture.CloseAll(frames)

	cam := capture.NewMockCamera(frames, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("camera Open() error = %v", err)
	}
	sink := midi.NewMockSink()
	logger := zaptest.NewLogger(t)

	a, err := New(Config{
		Camera:   cam,
		Detector: detector.NewColorDetector(),
		Band:     calibration.Static(band),
		Display:  &quitDisplay{quitAt: len(points)},
		Emitter:  trigger.NewEmitter(sink, logger),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.Frames() != int64(len(points)) {
		t.Errorf("Frames() = %d, want %d", a.Frames(), len(points))
	}
	return notesOn(sink.Messages())
}

func TestPipeline_ColourMarker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	tests := []struct {
		name   string
		points []image.Point
		want   []uint8
	}{
		{
			name:   "no marker",
			points: []image.Point{noMarker, noMarker, noMarker},
		},
		{
			name:   "pattern on default track",
			points: []image.Point{image.Pt(120, 40), image.Pt(120, 40)},
			want:   []uint8{36},
		},
		{
			name: "select track then play",
			points: []image.Point{
				noMarker,
				image.Pt(40, 310),  // track 2
				image.Pt(215, 40),  // pattern 1
				image.Pt(215, 40),  // dwell
				noMarker,           // re-arm
				image.Pt(405, 40),  // pattern 3
				image.Pt(320, 240), // empty space
				image.Pt(500, 40),  // mute
			},
			want: []uint8{47, 49, 50},
		},
		{
			name: "slide across patterns",
			points: []image.Point{
				image.Pt(120, 40),
				image.Pt(215, 40),
				image.Pt(310, 40),
			},
			want: []uint8{36, 37, 38},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runFrames(t, yellowBand, tt.points...)
			if !equalNotes(got, tt.want) {
				t.Errorf("notes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipeline_MatchEverythingBand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// The whole frame is one blob centred outside every zone.
	all := calibration.FromValues([6]int{180, 255, 255, 0, 0, 0})
	got := runFrames(t, all, image.Pt(120, 40), noMarker, image.Pt(40, 120))
	if len(got) != 0 {
		t.Errorf("notes = %v, want none", got)
	}
}
