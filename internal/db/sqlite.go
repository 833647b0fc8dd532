// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/anagarval/minerva/internal/block"
)

// SQLite implements block.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const blockColumns = `id, subject, title, notes, duration_minutes, start_datetime,
       pinned, importance, difficulty, completed, color, created_at`

// CreateBlock adds a new block and assigns its ID.
func (s *SQLite) CreateBlock(ctx context.Context, b *block.TimeBlock) error {
	query := `
		INSERT INTO blocks (
			subject, title, notes, duration_minutes, start_datetime,
			pinned, importance, difficulty, completed, color, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		b.Subject,
		b.Title,
		b.Notes,
		b.DurationMinutes,
		formatStart(b.StartDateTime),
		b.Pinned,
		b.Importance,
		b.Difficulty,
		b.Completed,
		b.Color,
		b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	b.ID = id

	return nil
}

// GetBlock retrieves a block by ID.
func (s *SQLite) GetBlock(ctx context.Context, id int64) (*block.TimeBlock, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE id = ?`, id)

	b, err := scanBlock(row)
	if err == sql.ErrNoRows {
		return nil, block.ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying block: %w", err)
	}
	return b, nil
}

// UpdateBlock persists all mutable fields of a block.
func (s *SQLite) UpdateBlock(ctx context.Context, b *block.TimeBlock) error {
	query := `
		UPDATE blocks
		SET subject = ?, title = ?, notes = ?, duration_minutes = ?,
		    start_datetime = ?, pinned = ?, importance = ?, difficulty = ?,
		    completed = ?, color = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		b.Subject, b.Title, b.Notes, b.DurationMinutes,
		formatStart(b.StartDateTime), b.Pinned, b.Importance, b.Difficulty,
		b.Completed, b.Color, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return block.ErrBlockNotFound
	}

	return nil
}

// DeleteBlock removes a block.
func (s *SQLite) DeleteBlock(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return block.ErrBlockNotFound
	}

	return nil
}

// ListBlocks returns every block, unscheduled ones included.
func (s *SQLite) ListBlocks(ctx context.Context) ([]*block.TimeBlock, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM blocks ORDER BY start_datetime IS NULL, start_datetime, id`)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBlocks(rows)
}

// ListBlocksByDateRange returns blocks scheduled within [start, end] by
// calendar date, inclusive.
func (s *SQLite) ListBlocksByDateRange(ctx context.Context, start, end time.Time) ([]*block.TimeBlock, error) {
	// Half-open on the day after end keeps the comparison lexicographic.
	lo := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	hi := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM blocks
		 WHERE start_datetime IS NOT NULL AND start_datetime >= ? AND start_datetime < ?
		 ORDER BY start_datetime`,
		lo.Format(time.RFC3339), hi.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("querying blocks by range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBlocks(rows)
}

// ReplaceBlocks atomically overwrites the scheduling state of the given
// blocks. All updates land or none do.
func (s *SQLite) ReplaceBlocks(ctx context.Context, blocks []*block.TimeBlock) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE blocks
		SET start_datetime = ?, pinned = ?, completed = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blocks {
		result, err := stmt.ExecContext(ctx, formatStart(b.StartDateTime), b.Pinned, b.Completed, b.ID)
		if err != nil {
			return fmt.Errorf("updating block %d: %w", b.ID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("block %d: %w", b.ID, block.ErrBlockNotFound)
		}
	}

	return tx.Commit()
}

// CreateWindow adds a new availability window and assigns its ID.
func (s *SQLite) CreateWindow(ctx context.Context, w *block.AvailabilityWindow) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO windows (label, start_hour, end_hour, days) VALUES (?, ?, ?, ?)`,
		w.Label, w.StartHour, w.EndHour, formatDays(w.Days))
	if err != nil {
		return fmt.Errorf("inserting window: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	w.ID = id

	return nil
}

// DeleteWindow removes a window.
func (s *SQLite) DeleteWindow(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM windows WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting window: %w", err)
	}
	return nil
}

// ListWindows returns every availability window.
func (s *SQLite) ListWindows(ctx context.Context) ([]*block.AvailabilityWindow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, start_hour, end_hour, days FROM windows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying windows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var windows []*block.AvailabilityWindow
	for rows.Next() {
		var w block.AvailabilityWindow
		var days string
		if err := rows.Scan(&w.ID, &w.Label, &w.StartHour, &w.EndHour, &days); err != nil {
			return nil, fmt.Errorf("scanning window: %w", err)
		}
		w.Days, err = parseDays(days)
		if err != nil {
			return nil, fmt.Errorf("parsing window days: %w", err)
		}
		windows = append(windows, &w)
	}
	return windows, rows.Err()
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(row scanner) (*block.TimeBlock, error) {
	var (
		b         block.TimeBlock
		start     sql.NullString
		createdAt sql.NullString
	)

	err := row.Scan(
		&b.ID, &b.Subject, &b.Title, &b.Notes, &b.DurationMinutes, &start,
		&b.Pinned, &b.Importance, &b.Difficulty, &b.Completed, &b.Color, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if start.Valid && start.String != "" {
		t, err := parseTimestamp(start.String)
		if err != nil {
			return nil, fmt.Errorf("parsing start datetime: %w", err)
		}
		b.StartDateTime = &t
	}

	if createdAt.Valid && createdAt.String != "" {
		t, err := parseTimestamp(createdAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		b.CreatedAt = t
	}

	return &b, nil
}

func collectBlocks(rows *sql.Rows) ([]*block.TimeBlock, error) {
	var blocks []*block.TimeBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func formatStart(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseTimestamp accepts the formats SQLite may hand back: RFC3339 from our
// own writes and the space-separated form of CURRENT_TIMESTAMP defaults.
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	var firstErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func formatDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func parseDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}
