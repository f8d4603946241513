package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/auramidi/internal/calibration"
)

var testBand = calibration.Band{UpperHue: 35, UpperSat: 255, UpperVal: 255, LowerHue: 20, LowerSat: 100, LowerVal: 100}

func TestSessionRepository_Start(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess, err := repo.Start("highlighter", testBand, "IAC Driver Bus 1")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Errorf("session id %q is not a uuid: %v", sess.ID, err)
	}
	if sess.EndedAt != nil {
		t.Error("a new session should be open")
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Profile != "highlighter" {
		t.Errorf("Profile = %q, want highlighter", got.Profile)
	}
	if got.Band != testBand {
		t.Errorf("Band = %+v, want %+v", got.Band, testBand)
	}
	if got.MIDIPort != "IAC Driver Bus 1" {
		t.Errorf("MIDIPort = %q", got.MIDIPort)
	}
	if got.StartedAt.Sub(sess.StartedAt).Abs() > time.Second {
		t.Errorf("StartedAt = %v, want about %v", got.StartedAt, sess.StartedAt)
	}
}

func TestSessionRepository_End(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess, err := repo.Start("highlighter", testBand, "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := repo.End(sess.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt == nil {
		t.Fatal("EndedAt should be set after End()")
	}

	// Ending twice is an error
	if err := repo.End(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second End() error = %v, want ErrNotFound", err)
	}
	if err := repo.End("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("End(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sessions, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("List() on empty store = %d sessions", len(sessions))
	}

	first, _ := repo.Start("highlighter", testBand, "")
	time.Sleep(10 * time.Millisecond)
	second, _ := repo.Start("green-pen", testBand, "")

	sessions, err = repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("List() = %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != second.ID || sessions[1].ID != first.ID {
		t.Error("List() should return newest first")
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess, _ := repo.Start("highlighter", testBand, "")
	if err := repo.Delete(sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after Delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}
