package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/auramidi/internal/calibration"
)

// Session is one run of the frame loop.
type Session struct {
	ID        string
	Profile   string
	Band      calibration.Band
	MIDIPort  string
	StartedAt time.Time
	EndedAt   *time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts a new open session with a generated ID.
func (r *SessionRepository) Start(profile string, band calibration.Band, midiPort string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		Band:      band,
		MIDIPort:  midiPort,
		StartedAt: time.Now().UTC(),
	}

	bandJSON, err := json.Marshal(band)
	if err != nil {
		return nil, fmt.Errorf("encode band: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO sessions (id, profile, band, midi_port, started_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Profile, string(bandJSON), sess.MIDIPort, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// End records the end time of a session.
func (r *SessionRepository) End(id string) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, profile, band, midi_port, started_at, ended_at FROM sessions WHERE id = ?`,
		id,
	)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, profile, band, midi_port, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and, by cascade, its triggers.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*Session, error) {
	sess := &Session{}
	var band string
	var ended sql.NullTime

	if err := sc.Scan(&sess.ID, &sess.Profile, &band, &sess.MIDIPort, &sess.StartedAt, &ended); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(band), &sess.Band); err != nil {
		return nil, fmt.Errorf("decode band of session %s: %w", sess.ID, err)
	}
	if ended.Valid {
		t := ended.Time
		sess.EndedAt = &t
	}

	return sess, nil
}
