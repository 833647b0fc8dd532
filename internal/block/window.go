package block

import (
	"errors"
	"fmt"
	"strings"
)

// Window validation errors, checked in this order.
var (
	ErrWindowEmptyLabel = errors.New("label must not be empty")
	ErrWindowNoDays     = errors.New("at least one day must be selected")
	ErrWindowZeroWidth  = errors.New("start and end hour must differ")
	ErrWindowOverlap    = errors.New("overlaps existing window")
)

// AvailabilityWindow marks a recurring slice of the week as unavailable for
// study blocks. Hours live in [0,24); a window with StartHour > EndHour wraps
// past midnight. Days use 0=Monday through 6=Sunday.
type AvailabilityWindow struct {
	ID        int64
	Label     string
	StartHour float64
	EndHour   float64
	Days      []int
}

// Ranges returns the window's same-day hour ranges, splitting wraparound.
func (w *AvailabilityWindow) Ranges() []HourRange {
	return NormalizeRange(w.StartHour, w.EndHour)
}

// ActiveOn returns true if the window applies on the given weekday (0=Monday).
func (w *AvailabilityWindow) ActiveOn(day int) bool {
	for _, d := range w.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Clone returns a copy of the window with its own day slice.
func (w *AvailabilityWindow) Clone() *AvailabilityWindow {
	c := *w
	c.Days = append([]int(nil), w.Days...)
	return &c
}

// ValidateWindow checks a candidate window against the existing set and
// returns the first failure: blank label, no days, zero-width range, then
// overlap with an existing window on a shared day. Wraparound windows are
// compared piecewise after splitting at midnight.
func ValidateWindow(w *AvailabilityWindow, existing []*AvailabilityWindow) error {
	if strings.TrimSpace(w.Label) == "" {
		return ErrWindowEmptyLabel
	}
	if len(w.Days) == 0 {
		return ErrWindowNoDays
	}
	if w.StartHour == w.EndHour {
		return ErrWindowZeroWidth
	}

	for _, other := range existing {
		if other.ID != 0 && other.ID == w.ID {
			continue
		}
		if !sharesDay(w, other) {
			continue
		}
		for _, r := range w.Ranges() {
			for _, o := range other.Ranges() {
				if r.OverlapsRange(o) {
					return fmt.Errorf("%w %q", ErrWindowOverlap, other.Label)
				}
			}
		}
	}

	return nil
}

func sharesDay(a, b *AvailabilityWindow) bool {
	for _, d := range a.Days {
		if b.ActiveOn(d) {
			return true
		}
	}
	return false
}
