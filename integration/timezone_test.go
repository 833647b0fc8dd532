package integration

import (
	"context"
	"testing"
	"time"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/grid"
)

// TestLocalTimeRoundTrip verifies that a block scheduled today in local time
// survives the database round trip and is found by the week query the grid
// uses. Start times are stored as local RFC 3339 strings; a UTC conversion
// anywhere in the path would shift evening blocks onto a neighboring day.
func TestLocalTimeRoundTrip(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	now := time.Now()
	weekStart := grid.WeekStart(now)
	t.Logf("now: %v (%v), week start: %v", now, now.Location(), weekStart)

	b, err := block.New("Math", "Late session", 60, 50, 50)
	if err != nil {
		t.Fatalf("failed to create block: %v", err)
	}
	// 23:00 today: the worst case for timezone shifts.
	today := time.Date(now.Year(), now.Month(), now.Day(), 23, 0, 0, 0, time.Local)
	b.SetStart(today)
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatalf("failed to insert block: %v", err)
	}

	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatalf("failed to get block: %v", err)
	}
	if !got.StartDateTime.Equal(today) {
		t.Errorf("start time shifted: got %v, want %v", got.StartDateTime, today)
	}
	if got.StartHour() != 23 {
		t.Errorf("start hour = %v, want 23", got.StartHour())
	}

	blocks, err := repo.ListBlocksByDateRange(ctx, weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("failed to list week: %v", err)
	}
	found := false
	for _, wb := range blocks {
		if wb.ID == b.ID {
			found = true
			if !wb.OnDate(today) {
				t.Errorf("block moved to another date: %v", wb.StartDateTime)
			}
		}
	}
	if !found {
		t.Error("block scheduled today not found in its own week")
	}

	// The grid day index must agree with the stored date.
	if got := grid.DayIndex(*b.StartDateTime); got != grid.DayIndex(today) {
		t.Errorf("day index = %d, want %d", got, grid.DayIndex(today))
	}
}
