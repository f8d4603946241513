package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/auramidi/internal/trigger"
	"github.com/ayusman/auramidi/internal/zone"
)

// TriggerRecord is a stored note trigger.
type TriggerRecord struct {
	ID        string
	SessionID string
	trigger.Event
}

// TriggerRepository records and queries fired triggers.
type TriggerRepository struct {
	db *sql.DB
}

// Triggers returns the trigger repository for this store.
func (s *Store) Triggers() *TriggerRepository {
	return &TriggerRepository{db: s.db}
}

// Record stores a fired trigger against a session.
func (r *TriggerRepository) Record(sessionID string, ev trigger.Event) (*TriggerRecord, error) {
	if ev.Zone.Kind.Group() != zone.GroupPattern {
		return nil, fmt.Errorf("trigger in %s zone: only pattern zones fire", ev.Zone)
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	ev.At = ev.At.UTC()

	rec := &TriggerRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Event:     ev,
	}

	_, err := r.db.Exec(
		`INSERT INTO triggers (id, session_id, zone_kind, zone_index, track, note, fired_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, ev.Zone.Kind.String(), ev.Zone.Index, ev.Track, int(ev.Note), ev.At,
	)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ListBySession returns the triggers of a session in firing order.
func (r *TriggerRepository) ListBySession(sessionID string) ([]*TriggerRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, zone_kind, zone_index, track, note, fired_at
		 FROM triggers WHERE session_id = ? ORDER BY fired_at, rowid`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*TriggerRecord
	for rows.Next() {
		rec, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CountBySession returns how many triggers a session fired.
func (r *TriggerRepository) CountBySession(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM triggers WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

func scanTrigger(sc scanner) (*TriggerRecord, error) {
	rec := &TriggerRecord{}
	var kind string
	var note int

	if err := sc.Scan(&rec.ID, &rec.SessionID, &kind, &rec.Zone.Index, &rec.Track, &note, &rec.At); err != nil {
		return nil, err
	}

	k, err := zone.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("trigger %s: %w", rec.ID, err)
	}
	rec.Zone.Kind = k
	rec.Note = uint8(note)

	return rec, nil
}
