// Package grid maps pointer coordinates onto the week grid.
//
// The grid is seven day columns wide and 24 hours tall. Both rendering and
// pointer interpretation share the same vertical scale so a block's drawn
// position and its hit area never drift apart.
package grid

import (
	"math"
	"time"
)

// PixelsPerHour is the shared vertical scale of the week grid.
const PixelsPerHour = 64.0

// maxStartHour is the latest representable start, one quarter hour before
// midnight.
const maxStartHour = 23.75

// HourFromY converts a vertical offset into fractional hours, clamped to
// [0, 23.75]. Pointer positions above or below the grid resolve to the edge
// rather than an out-of-range hour.
func HourFromY(y float64) float64 {
	h := y / PixelsPerHour
	if h < 0 {
		return 0
	}
	if h > maxStartHour {
		return maxStartHour
	}
	return h
}

// YFromHour converts fractional hours back into a vertical offset.
func YFromHour(h float64) float64 {
	return h * PixelsPerHour
}

// DayIndexFromX converts a horizontal offset into a day column index,
// clamped to [0, days-1].
func DayIndexFromX(x, dayWidth float64, days int) int {
	if days <= 0 || dayWidth <= 0 {
		return 0
	}
	idx := int(math.Floor(x / dayWidth))
	if idx < 0 {
		return 0
	}
	if idx >= days {
		return days - 1
	}
	return idx
}

// SnapToQuarterHour rounds fractional hours to the nearest quarter hour.
// Halfway points round up, matching math.Round.
func SnapToQuarterHour(h float64) float64 {
	return math.Round(h*4) / 4
}

// SnapDuration rounds a minute count to the nearest quarter hour with a
// 15 minute floor.
func SnapDuration(minutes int) int {
	snapped := int(math.Round(float64(minutes)/15)) * 15
	if snapped < 15 {
		return 15
	}
	return snapped
}

// WeekStart returns Monday 00:00 of the ISO week containing t, in t's
// location.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the ISO week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// DayDate returns the calendar date of the given day column (0=Monday) in
// the week starting at weekStart.
func DayDate(weekStart time.Time, day int) time.Time {
	return weekStart.AddDate(0, 0, day)
}

// DayIndex returns the day column (0=Monday..6=Sunday) for a date.
func DayIndex(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return weekday - 1
}
