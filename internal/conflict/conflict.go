// Package conflict evaluates candidate block placements against availability
// windows and already-placed blocks.
//
// Checks are pure: every call receives the full context it needs and mutates
// nothing, so the TUI can run them per-frame against drag previews.
package conflict

import (
	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/grid"
)

// Verdict classifies a placement.
type Verdict int

const (
	// OK means the placement is clean.
	OK Verdict = iota
	// Conflict means the block overlaps a window or another block.
	Conflict
	// RestViolation means the block is placed closer to a neighbor than the
	// preferred rest gap. Reported only when there is no hard conflict.
	RestViolation
)

// Flags holds the raw results of a placement check.
type Flags struct {
	WindowConflict bool
	BlockConflict  bool
	RestViolation  bool
}

// Verdict folds the flags into a single classification. Hard conflicts win
// over rest violations.
func (f Flags) Verdict() Verdict {
	if f.WindowConflict || f.BlockConflict {
		return Conflict
	}
	if f.RestViolation {
		return RestViolation
	}
	return OK
}

// HasConflict reports whether the placement overlaps anything.
func (f Flags) HasConflict() bool {
	return f.WindowConflict || f.BlockConflict
}

// Check evaluates a candidate placement. The candidate is compared against
// every window active on its weekday and against peers scheduled on the same
// calendar date. A peer with the candidate's id is skipped, so checking a
// drag preview never flags the block it previews. Completed peers still
// occupy their time and are not skipped.
//
// Known limitation: a block whose duration spills past midnight is only
// checked within its start date. The spilled portion is invisible to peers
// and windows of the following day.
func Check(candidate *block.TimeBlock, peers []*block.TimeBlock, windows []*block.AvailabilityWindow, restMinutes int) Flags {
	var f Flags
	if candidate == nil || !candidate.IsScheduled() {
		return f
	}

	startH := candidate.StartHour()
	endH := candidate.EndHour()
	day := grid.DayIndex(*candidate.StartDateTime)

	for _, w := range windows {
		if !w.ActiveOn(day) {
			continue
		}
		for _, r := range w.Ranges() {
			if r.IsEmpty() {
				continue
			}
			if startH < r.End && endH > r.Start {
				f.WindowConflict = true
			}
		}
	}

	restHours := float64(restMinutes) / 60
	for _, p := range peers {
		if p.ID == candidate.ID {
			continue
		}
		if !p.OnDate(*candidate.StartDateTime) {
			continue
		}
		pStart := p.StartHour()
		pEnd := p.EndHour()
		if block.Overlaps(startH, endH, pStart, pEnd) {
			f.BlockConflict = true
			continue
		}
		if restMinutes <= 0 {
			continue
		}
		// Gap to the nearest edge of a non-overlapping same-day peer.
		// Exactly the preferred gap is compliant; anything shorter,
		// including back-to-back, is not.
		var gap float64
		if pEnd <= startH {
			gap = startH - pEnd
		} else {
			gap = pStart - endH
		}
		if gap >= 0 && gap < restHours {
			f.RestViolation = true
		}
	}

	return f
}
