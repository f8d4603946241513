package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the frame loop
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			profile TEXT NOT NULL,
			band TEXT NOT NULL,
			midi_port TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Triggers table - every note fired during a session
		`CREATE TABLE IF NOT EXISTS triggers (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			zone_kind TEXT NOT NULL CHECK(zone_kind IN ('pattern', 'mute')),
			zone_index INTEGER NOT NULL,
			track INTEGER NOT NULL,
			note INTEGER NOT NULL CHECK(note BETWEEN 0 AND 127),
			fired_at DATETIME NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_triggers_session_id ON triggers(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
