// Package autoplan orchestrates auto-scheduling: it asks a model (or a local
// fallback) for a weekly placement proposal, re-validates every suggestion,
// and merges the accepted ones atomically into the block set.
package autoplan

import (
	"strconv"
	"time"

	"github.com/anagarval/minerva/internal/block"
)

// TaskPayload is one unscheduled block as presented to the model.
type TaskPayload struct {
	ID              string `json:"id"`
	Subject         string `json:"subject"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
	Importance      int    `json:"importance"`
	Difficulty      int    `json:"difficulty"`
}

// WindowPayload is one availability window as presented to the model.
type WindowPayload struct {
	Label     string  `json:"label"`
	StartHour float64 `json:"startHour"`
	EndHour   float64 `json:"endHour"`
	Days      []int   `json:"daysOfWeek"`
}

// Request carries everything the scheduling collaborator needs.
type Request struct {
	Tasks               []TaskPayload   `json:"tasks"`
	UnavailableTimes    []WindowPayload `json:"unavailableTimes"`
	SubjectPreferences  string          `json:"subjectPreferences,omitempty"`
	MaxStudyHoursPerDay float64         `json:"maxStudyHoursPerDay"`
	PreferredRestMin    int             `json:"preferredRestMinutes"`
	CurrentDate         string          `json:"currentDate"` // ISO 8601
}

// ScheduledTask is one accepted placement in a proposal.
type ScheduledTask struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"` // ISO 8601
	Reasoning string `json:"reasoning"`
}

// UnscheduledTask is one block the collaborator could not place.
type UnscheduledTask struct {
	ID          string   `json:"id"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Insights summarizes the proposal for display.
type Insights struct {
	TotalScheduled   int      `json:"totalScheduled"`
	TotalUnscheduled int      `json:"totalUnscheduled"`
	WeeklyStudyHours float64  `json:"weeklyStudyHours"`
	Recommendations  []string `json:"recommendations"`
}

// Response is the collaborator's full proposal. It is advice only; nothing in
// it is applied without re-validation.
type Response struct {
	ScheduledTasks   []ScheduledTask   `json:"scheduledTasks"`
	UnscheduledTasks []UnscheduledTask `json:"unscheduledTasks"`
	Insights         Insights          `json:"insights"`
}

// BuildRequest assembles a Request from the current state. Only blocks that
// are neither scheduled nor completed are offered; pinned placements,
// completed work, and everything already on the grid stay where they are.
func BuildRequest(blocks []*block.TimeBlock, windows []*block.AvailabilityWindow, prefs string, maxHoursPerDay float64, restMinutes int, now time.Time) Request {
	req := Request{
		SubjectPreferences:  prefs,
		MaxStudyHoursPerDay: maxHoursPerDay,
		PreferredRestMin:    restMinutes,
		CurrentDate:         now.Format(time.RFC3339),
	}

	for _, b := range blocks {
		if b.Completed || b.IsScheduled() {
			continue
		}
		req.Tasks = append(req.Tasks, TaskPayload{
			ID:              strconv.FormatInt(b.ID, 10),
			Subject:         b.Subject,
			Title:           b.Title,
			DurationMinutes: b.DurationMinutes,
			Importance:      b.Importance,
			Difficulty:      b.Difficulty,
		})
	}

	for _, w := range windows {
		req.UnavailableTimes = append(req.UnavailableTimes, WindowPayload{
			Label:     w.Label,
			StartHour: w.StartHour,
			EndHour:   w.EndHour,
			Days:      append([]int(nil), w.Days...),
		})
	}

	return req
}

// startTimeLayouts are accepted for proposal start times, most specific
// first. Models are asked for local ISO 8601 but not all of them listen.
var startTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseStartTime parses a proposal start time in the local timezone.
func ParseStartTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range startTimeLayouts {
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
