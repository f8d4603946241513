// Package server provides the HTTP status server: health, zone layout, session
// history, a live MJPEG preview and a WebSocket trigger feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/auramidi/internal/server/api"
	"github.com/ayusman/auramidi/internal/store"
	"github.com/ayusman/auramidi/internal/trigger"
	"github.com/ayusman/auramidi/internal/zone"
)

// shutdownTimeout bounds how long in-flight requests get once the context ends.
const shutdownTimeout = 2 * time.Second

// Counters reports frame loop progress for the health endpoint.
type Counters interface {
	Frames() int64
	Triggers() int64
}

// Config holds the server configuration. Every field is optional; routes
// whose backing component is nil are not registered.
type Config struct {
	Store    *store.Store
	Layout   zone.Layout
	Notes    *trigger.Notes
	Frames   *FrameBuffer
	Events   *EventHub
	Counters Counters
	Logger   *zap.Logger
}

// Server represents the HTTP status server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	logger *zap.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Layout != nil {
		s.mux.HandleFunc("/api/layout", s.handleLayout)
	}

	// Register session API handler if Store is configured
	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}
	if c := s.config.Counters; c != nil {
		response["frames"] = c.Frames()
		response["triggers"] = c.Triggers()
	}

	writeJSON(w, response)
}

type zoneResponse struct {
	ID    zone.ID `json:"id"`
	Label string  `json:"label"`
	MinX  int     `json:"min_x"`
	MinY  int     `json:"min_y"`
	MaxX  int     `json:"max_x"`
	MaxY  int     `json:"max_y"`
	// Notes holds the note fired per track for pattern zones.
	Notes []uint8 `json:"notes,omitempty"`
}

// handleLayout handles GET requests to /api/layout.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notes := trigger.DefaultNotes()
	if s.config.Notes != nil {
		notes = *s.config.Notes
	}

	zones := make([]zoneResponse, 0, len(s.config.Layout))
	for _, z := range s.config.Layout {
		zr := zoneResponse{
			ID:    z.ID,
			Label: z.Label,
			MinX:  z.Min.X,
			MinY:  z.Min.Y,
			MaxX:  z.Max.X,
			MaxY:  z.Max.Y,
		}
		if z.ID.Kind.Group() == zone.GroupPattern {
			for track := 0; track < zone.TrackCount; track++ {
				zr.Notes = append(zr.Notes, notes.Note(track, z.ID.Index))
			}
		}
		zones = append(zones, zr)
	}

	writeJSON(w, map[string]any{"zones": zones})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
// It returns nil after a shutdown triggered by ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.config.Events != nil {
		s.config.Events.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
