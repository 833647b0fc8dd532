package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS blocks (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			subject          TEXT NOT NULL DEFAULT '',
			title            TEXT NOT NULL,
			notes            TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER NOT NULL CHECK(duration_minutes > 0),
			start_datetime   DATETIME,
			pinned           INTEGER NOT NULL DEFAULT 0,
			importance       INTEGER NOT NULL DEFAULT 0 CHECK(importance BETWEEN 0 AND 100),
			difficulty       INTEGER NOT NULL DEFAULT 0 CHECK(difficulty BETWEEN 0 AND 100),
			completed        INTEGER NOT NULL DEFAULT 0,
			color            TEXT NOT NULL DEFAULT '',
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_blocks_start ON blocks(start_datetime);
		CREATE INDEX IF NOT EXISTS idx_blocks_completed ON blocks(completed);

		CREATE TABLE IF NOT EXISTS windows (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			label      TEXT NOT NULL,
			start_hour REAL NOT NULL,
			end_hour   REAL NOT NULL,
			days       TEXT NOT NULL
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
