// Package block defines the core domain types for minerva.
package block

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidDuration   = errors.New("duration must be greater than zero")
	ErrInvalidImportance = errors.New("importance must be between 0 and 100")
	ErrInvalidDifficulty = errors.New("difficulty must be between 0 and 100")
)

// Domain errors.
var (
	ErrBlockNotFound = errors.New("time block not found")
)

// MinDurationMinutes is the shortest block the planner will create or resize to.
const MinDurationMinutes = 15

// TimeBlock represents a single study block. A block without a start time is
// unscheduled and sits in the backlog until placed on the week grid.
type TimeBlock struct {
	ID              int64
	Subject         string
	Title           string
	Notes           string
	DurationMinutes int
	StartDateTime   *time.Time // nil when unscheduled
	Pinned          bool       // user placed it by hand, auto-scheduling must not move it
	Importance      int        // 0-100
	Difficulty      int        // 0-100
	Completed       bool
	Color           string
	CreatedAt       time.Time
}

// New creates a new TimeBlock with validation. The block starts unscheduled.
func New(subject, title string, durationMinutes, importance, difficulty int) (*TimeBlock, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if importance < 0 || importance > 100 {
		return nil, ErrInvalidImportance
	}
	if difficulty < 0 || difficulty > 100 {
		return nil, ErrInvalidDifficulty
	}

	return &TimeBlock{
		Subject:         subject,
		Title:           title,
		DurationMinutes: durationMinutes,
		Importance:      importance,
		Difficulty:      difficulty,
		Color:           SubjectColor(subject),
		CreatedAt:       time.Now(),
	}, nil
}

// IsScheduled returns true if the block has a start time.
func (b *TimeBlock) IsScheduled() bool {
	return b.StartDateTime != nil
}

// StartHour returns the start as fractional hours into its day.
// Returns 0 for unscheduled blocks.
func (b *TimeBlock) StartHour() float64 {
	if b.StartDateTime == nil {
		return 0
	}
	return float64(b.StartDateTime.Hour()) + float64(b.StartDateTime.Minute())/60
}

// EndHour returns the end as fractional hours into the start day.
// A block starting late enough can end past 24; callers that care about the
// next day must handle that themselves.
func (b *TimeBlock) EndHour() float64 {
	return b.StartHour() + float64(b.DurationMinutes)/60
}

// DurationHours returns the duration as fractional hours.
func (b *TimeBlock) DurationHours() float64 {
	return float64(b.DurationMinutes) / 60
}

// OnDate returns true if the block is scheduled on the given calendar date.
func (b *TimeBlock) OnDate(t time.Time) bool {
	if b.StartDateTime == nil {
		return false
	}
	y1, m1, d1 := b.StartDateTime.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Clone returns a deep copy of the block. Mutating the clone never touches
// the original, including its start time.
func (b *TimeBlock) Clone() *TimeBlock {
	c := *b
	if b.StartDateTime != nil {
		t := *b.StartDateTime
		c.StartDateTime = &t
	}
	return &c
}

// SetStart schedules the block at the given time.
func (b *TimeBlock) SetStart(t time.Time) {
	b.StartDateTime = &t
}

// ClearStart returns the block to the unscheduled backlog.
func (b *TimeBlock) ClearStart() {
	b.StartDateTime = nil
	b.Pinned = false
}
