package block

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		title      string
		duration   int
		importance int
		difficulty int
		wantErr    error
	}{
		{name: "valid", subject: "Physics", title: "Optics problem set", duration: 60, importance: 70, difficulty: 50},
		{name: "empty title", subject: "Physics", title: "", duration: 60, wantErr: ErrEmptyTitle},
		{name: "whitespace title", subject: "Physics", title: "   ", duration: 60, wantErr: ErrEmptyTitle},
		{name: "zero duration", subject: "Physics", title: "Reading", duration: 0, wantErr: ErrInvalidDuration},
		{name: "negative duration", subject: "Physics", title: "Reading", duration: -30, wantErr: ErrInvalidDuration},
		{name: "importance too high", subject: "Physics", title: "Reading", duration: 30, importance: 101, wantErr: ErrInvalidImportance},
		{name: "difficulty negative", subject: "Physics", title: "Reading", duration: 30, difficulty: -1, wantErr: ErrInvalidDifficulty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.subject, tt.title, tt.duration, tt.importance, tt.difficulty)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if b.IsScheduled() {
					t.Error("new block should be unscheduled")
				}
				if b.Color == "" {
					t.Error("new block should have a color")
				}
			}
		})
	}
}

func TestBlockHours(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local)
	b := &TimeBlock{DurationMinutes: 90, StartDateTime: &start}

	if got := b.StartHour(); got != 9.5 {
		t.Errorf("StartHour() = %v, want 9.5", got)
	}
	if got := b.EndHour(); got != 11 {
		t.Errorf("EndHour() = %v, want 11", got)
	}

	unscheduled := &TimeBlock{DurationMinutes: 90}
	if got := unscheduled.StartHour(); got != 0 {
		t.Errorf("unscheduled StartHour() = %v, want 0", got)
	}
}

func TestBlockOnDate(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local)
	b := &TimeBlock{DurationMinutes: 120, StartDateTime: &start}

	if !b.OnDate(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)) {
		t.Error("block should be on its start date")
	}
	// A block spilling past midnight still belongs only to its start date.
	if b.OnDate(time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)) {
		t.Error("block should not be on the next date")
	}
	if (&TimeBlock{}).OnDate(time.Now()) {
		t.Error("unscheduled block is on no date")
	}
}

func TestBlockClone(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	b := &TimeBlock{ID: 1, Title: "Essay draft", DurationMinutes: 60, StartDateTime: &start}

	c := b.Clone()
	newStart := start.Add(2 * time.Hour)
	c.StartDateTime = &newStart
	c.DurationMinutes = 45
	c.Title = "changed"

	if b.StartDateTime.Hour() != 9 || b.DurationMinutes != 60 || b.Title != "Essay draft" {
		t.Error("mutating the clone changed the original")
	}
}

func TestSubjectColor(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{subject: "Mathematics", want: "#3b82f6"},
		{subject: "Computer Science", want: "#8b5cf6"},
		{subject: "Chemistry", want: "#10b981"},
		{subject: "Basket Weaving", want: DefaultSubjectColor},
		{subject: "", want: DefaultSubjectColor},
	}

	for _, tt := range tests {
		if got := SubjectColor(tt.subject); got != tt.want {
			t.Errorf("SubjectColor(%q) = %q, want %q", tt.subject, got, tt.want)
		}
	}
}

func TestStoreReplaceBlocksIsWholesale(t *testing.T) {
	s := NewStore()
	a, _ := New("Physics", "Reading", 30, 50, 50)
	b, _ := New("History", "Essay", 60, 50, 50)
	s.Add(a)
	s.Add(b)

	replacement := []*TimeBlock{a.Clone()}
	s.ReplaceBlocks(replacement)

	if len(s.Blocks()) != 1 {
		t.Fatalf("expected 1 block after replace, got %d", len(s.Blocks()))
	}
	if s.Find(b.ID) != nil {
		t.Error("replaced-away block should be gone")
	}

	// New ids keep advancing past everything seen.
	c, _ := New("English", "Vocab", 30, 50, 50)
	s.Add(c)
	if c.ID <= b.ID {
		t.Errorf("new id %d should be past %d", c.ID, b.ID)
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	a, _ := New("Physics", "Reading", 30, 50, 50)
	s.Add(a)

	if err := s.Remove(a.ID); err != nil {
		t.Fatalf("Remove() = %v", err)
	}
	if err := s.Remove(a.ID); !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("second Remove() = %v, want ErrBlockNotFound", err)
	}
}

func TestStoreAddWindowValidates(t *testing.T) {
	s := NewStore()
	if err := s.AddWindow(&AvailabilityWindow{Label: "Sleep", StartHour: 22, EndHour: 6, Days: []int{0, 1}}); err != nil {
		t.Fatalf("AddWindow() = %v", err)
	}
	err := s.AddWindow(&AvailabilityWindow{Label: "Late gym", StartHour: 23, EndHour: 23.5, Days: []int{1}})
	if !errors.Is(err, ErrWindowOverlap) {
		t.Errorf("AddWindow() = %v, want ErrWindowOverlap", err)
	}
}
