// Package session owns pointer-driven move and resize interactions on the
// week grid.
//
// A Controller is a small state machine: Idle until a session begins, then
// Dragging or Resizing until the pointer is released or capture is lost.
// While active it maintains a preview clone of the manipulated block; the
// committed block is untouched until the caller applies the session result.
package session

import (
	"errors"
	"time"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/grid"
)

// Session errors.
var (
	ErrSessionActive = errors.New("an interaction session is already active")
	ErrNoSession     = errors.New("no interaction session is active")
	ErrUnscheduled   = errors.New("cannot start a session on an unscheduled block")
)

// State identifies what the controller is doing.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Geometry fixes the grid placement for the lifetime of one session.
type Geometry struct {
	WeekStart time.Time // Monday 00:00 of the visible week
	DayWidth  float64   // horizontal pixels per day column
	Days      int       // number of visible day columns
}

// Controller runs at most one move or resize session at a time.
type Controller struct {
	state   State
	preview *block.TimeBlock
	geo     Geometry

	// Snapshot taken when the session begins. All pointer deltas are
	// computed against these, never against intermediate previews, so a
	// jittery pointer cannot accumulate drift.
	initialPointerY  float64
	initialStartHour float64
	initialDuration  int
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// State returns the current session state.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	return c.state != Idle
}

// Preview returns the current preview block, or nil when idle. The preview
// is live; callers must not mutate it.
func (c *Controller) Preview() *block.TimeBlock {
	return c.preview
}

// ActiveID returns the id of the block under manipulation, or 0.
func (c *Controller) ActiveID() int64 {
	if c.preview == nil {
		return 0
	}
	return c.preview.ID
}

// BeginMove starts a drag session on a scheduled block.
// Returns ErrSessionActive if any session is already running.
func (c *Controller) BeginMove(b *block.TimeBlock, pointerY float64, geo Geometry) error {
	return c.begin(Dragging, b, pointerY, geo)
}

// BeginResize starts a resize session on a scheduled block.
func (c *Controller) BeginResize(b *block.TimeBlock, pointerY float64, geo Geometry) error {
	return c.begin(Resizing, b, pointerY, geo)
}

func (c *Controller) begin(state State, b *block.TimeBlock, pointerY float64, geo Geometry) error {
	if c.state != Idle {
		return ErrSessionActive
	}
	if b == nil || !b.IsScheduled() {
		return ErrUnscheduled
	}

	c.state = state
	c.geo = geo
	c.preview = b.Clone()
	c.initialPointerY = pointerY
	c.initialStartHour = b.StartHour()
	c.initialDuration = b.DurationMinutes
	return nil
}

// Update advances the session with a new pointer position. It returns true
// when the preview changed. Calls while idle are ignored.
func (c *Controller) Update(x, y float64) bool {
	switch c.state {
	case Dragging:
		return c.updateMove(x, y)
	case Resizing:
		return c.updateResize(y)
	default:
		return false
	}
}

func (c *Controller) updateMove(x, y float64) bool {
	deltaHours := (y - c.initialPointerY) / grid.PixelsPerHour
	newStart := grid.SnapToQuarterHour(c.initialStartHour + deltaHours)

	// Keep the whole block inside the day.
	maxStart := 24 - c.preview.DurationHours()
	if newStart > maxStart {
		newStart = maxStart
	}
	if newStart < 0 {
		newStart = 0
	}

	day := grid.DayIndexFromX(x, c.geo.DayWidth, c.geo.Days)
	date := grid.DayDate(c.geo.WeekStart, day)

	curStart := c.preview.StartHour()
	curDay := grid.DayIndex(*c.preview.StartDateTime)
	if newStart == curStart && day == curDay {
		return false
	}

	start := date.Add(time.Duration(newStart * float64(time.Hour)))
	c.preview.StartDateTime = &start
	return true
}

func (c *Controller) updateResize(y float64) bool {
	deltaMinutes := (y - c.initialPointerY) / grid.PixelsPerHour * 60
	newDuration := grid.SnapDuration(c.initialDuration + int(deltaMinutes))

	// The block may not grow past midnight.
	maxDuration := int((24 - c.preview.StartHour()) * 60)
	if newDuration > maxDuration {
		newDuration = maxDuration - maxDuration%block.MinDurationMinutes
	}
	if newDuration < block.MinDurationMinutes {
		newDuration = block.MinDurationMinutes
	}

	if newDuration == c.preview.DurationMinutes {
		return false
	}
	c.preview.DurationMinutes = newDuration
	return true
}

// End finishes the session and returns the block to commit, pinned so
// auto-scheduling will not move it again. Pointer release and pointer
// capture loss both land here; the two are indistinguishable on purpose.
// There is no abort: every session ends in a commit.
func (c *Controller) End() (*block.TimeBlock, error) {
	if c.state == Idle {
		return nil, ErrNoSession
	}
	result := c.preview
	result.Pinned = true
	c.reset()
	return result, nil
}

func (c *Controller) reset() {
	c.state = Idle
	c.preview = nil
	c.initialPointerY = 0
	c.initialStartHour = 0
	c.initialDuration = 0
}
