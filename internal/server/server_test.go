package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/auramidi/internal/store"
	"github.com/ayusman/auramidi/internal/zone"
)

type fixedCounters struct{ frames, triggers int64 }

func (c fixedCounters) Frames() int64   { return c.frames }
func (c fixedCounters) Triggers() int64 { return c.triggers }

func TestServer_Health(t *testing.T) {
	s := New(Config{Counters: fixedCounters{frames: 120, triggers: 7}})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
		if response["frames"] != float64(120) || response["triggers"] != float64(7) {
			t.Errorf("expected frames 120 and triggers 7, got %v and %v", response["frames"], response["triggers"])
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_Layout(t *testing.T) {
	s := New(Config{Layout: zone.Default()})

	req := httptest.NewRequest(http.MethodGet, "/api/layout", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response struct {
		Zones []zoneResponse `json:"zones"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Zones) != zone.TrackCount+zone.PatternCount {
		t.Fatalf("expected %d zones, got %d", zone.TrackCount+zone.PatternCount, len(response.Zones))
	}

	for _, z := range response.Zones {
		switch z.ID.Kind {
		case zone.Track:
			if len(z.Notes) != 0 {
				t.Errorf("track zone %s should carry no notes", z.ID)
			}
		default:
			if len(z.Notes) != zone.TrackCount {
				t.Errorf("pattern zone %s: expected %d notes, got %d", z.ID, zone.TrackCount, len(z.Notes))
			}
		}
	}

	// Pattern 2 on track 1
	for _, z := range response.Zones {
		if z.ID == (zone.ID{Kind: zone.Pattern, Index: 2}) {
			if z.Notes[1] != 43 {
				t.Errorf("expected note 43 for pattern 2 on track 1, got %d", z.Notes[1])
			}
			if z.MinX != 270 || z.MaxX != 350 || z.MinY != 1 || z.MaxY != 80 {
				t.Errorf("unexpected pattern 2 bounds %+v", z)
			}
		}
	}
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	paths := []string{"/api/nonexistent", "/api/layout", "/api/sessions", "/api/stream", "/api/events", "/"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_SessionsRoute(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	s := New(Config{Store: st})

	for _, path := range []string{"/api/sessions", "/api/sessions/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusOK, rec.Code)
		}
	}
}
