// Package api provides HTTP API handlers for the session history.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/auramidi/internal/calibration"
	"github.com/ayusman/auramidi/internal/store"
	"github.com/ayusman/auramidi/internal/zone"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions, /api/sessions/{id}, /api/sessions/{id}/triggers
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case sub == "triggers" && r.Method == http.MethodGet:
		h.triggers(w, r, id)
	case sub == "" || sub == "triggers":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Response types

type sessionResponse struct {
	ID        string           `json:"id"`
	Profile   string           `json:"profile"`
	Band      calibration.Band `json:"band"`
	MIDIPort  string           `json:"midi_port"`
	StartedAt string           `json:"started_at"`
	EndedAt   string           `json:"ended_at,omitempty"`
	Triggers  int              `json:"triggers"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type triggerResponse struct {
	ID      string  `json:"id"`
	Zone    zone.ID `json:"zone"`
	Track   int     `json:"track"`
	Note    uint8   `json:"note"`
	FiredAt string  `json:"fired_at"`
}

type listTriggersResponse struct {
	SessionID string            `json:"session_id"`
	Triggers  []triggerResponse `json:"triggers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Session to a sessionResponse.
func toResponse(s *store.Session, triggers int) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Profile:   s.Profile,
		Band:      s.Band,
		MIDIPort:  s.MIDIPort,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Triggers:  triggers,
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(time.RFC3339)
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions and returns all sessions, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}

	for _, s := range sessions {
		n, err := h.store.Triggers().CountBySession(s.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to count triggers")
			return
		}
		response.Sessions = append(response.Sessions, toResponse(s, n))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id} and returns a single session.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	n, err := h.store.Triggers().CountBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count triggers")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(session, n))
}

// triggers handles GET /api/sessions/{id}/triggers and returns them in firing order.
func (h *SessionHandler) triggers(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	records, err := h.store.Triggers().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list triggers")
		return
	}

	response := listTriggersResponse{
		SessionID: id,
		Triggers:  make([]triggerResponse, 0, len(records)),
	}
	for _, rec := range records {
		response.Triggers = append(response.Triggers, triggerResponse{
			ID:      rec.ID,
			Zone:    rec.Zone,
			Track:   rec.Track,
			Note:    rec.Note,
			FiredAt: rec.At.Format(time.RFC3339Nano),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/sessions/{id} and removes a session with its triggers.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sessions().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
