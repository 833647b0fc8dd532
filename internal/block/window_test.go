package block

import (
	"errors"
	"testing"
)

func TestValidateWindow(t *testing.T) {
	existing := []*AvailabilityWindow{
		{ID: 1, Label: "Sleep", StartHour: 22, EndHour: 6, Days: []int{0, 1, 2, 3, 4}},
		{ID: 2, Label: "Lunch", StartHour: 12, EndHour: 13, Days: []int{0, 1, 2, 3, 4}},
	}

	tests := []struct {
		name    string
		window  *AvailabilityWindow
		wantErr error
	}{
		{
			name:    "valid afternoon window",
			window:  &AvailabilityWindow{Label: "Practice", StartHour: 16, EndHour: 18, Days: []int{1, 3}},
			wantErr: nil,
		},
		{
			name:    "empty label",
			window:  &AvailabilityWindow{Label: "  ", StartHour: 16, EndHour: 18, Days: []int{1}},
			wantErr: ErrWindowEmptyLabel,
		},
		{
			name:    "no days",
			window:  &AvailabilityWindow{Label: "Practice", StartHour: 16, EndHour: 18, Days: nil},
			wantErr: ErrWindowNoDays,
		},
		{
			name:    "zero width",
			window:  &AvailabilityWindow{Label: "Practice", StartHour: 16, EndHour: 16, Days: []int{1}},
			wantErr: ErrWindowZeroWidth,
		},
		{
			name:    "label checked before days",
			window:  &AvailabilityWindow{Label: "", StartHour: 16, EndHour: 16, Days: nil},
			wantErr: ErrWindowEmptyLabel,
		},
		{
			name:    "overlaps lunch on shared day",
			window:  &AvailabilityWindow{Label: "Gym", StartHour: 12.5, EndHour: 14, Days: []int{2}},
			wantErr: ErrWindowOverlap,
		},
		{
			name:    "same hours but disjoint days",
			window:  &AvailabilityWindow{Label: "Gym", StartHour: 12.5, EndHour: 14, Days: []int{5, 6}},
			wantErr: nil,
		},
		{
			name:    "touches lunch end exactly",
			window:  &AvailabilityWindow{Label: "Gym", StartHour: 13, EndHour: 14, Days: []int{0}},
			wantErr: nil,
		},
		{
			name:    "overlaps wrapped sleep tail",
			window:  &AvailabilityWindow{Label: "Early run", StartHour: 5, EndHour: 7, Days: []int{0}},
			wantErr: ErrWindowOverlap,
		},
		{
			name:    "wrapping candidate overlaps sleep head",
			window:  &AvailabilityWindow{Label: "Night shift", StartHour: 23, EndHour: 2, Days: []int{4}},
			wantErr: ErrWindowOverlap,
		},
		{
			name:    "fits between sleep and lunch",
			window:  &AvailabilityWindow{Label: "Morning block", StartHour: 6, EndHour: 12, Days: []int{0, 1}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindow(tt.window, existing)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateWindow() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWindowSkipsSelf(t *testing.T) {
	w := &AvailabilityWindow{ID: 7, Label: "Lunch", StartHour: 12, EndHour: 13, Days: []int{0}}
	if err := ValidateWindow(w, []*AvailabilityWindow{w}); err != nil {
		t.Errorf("window should not conflict with itself, got %v", err)
	}
}

func TestWindowActiveOn(t *testing.T) {
	w := &AvailabilityWindow{Label: "Sleep", StartHour: 22, EndHour: 6, Days: []int{0, 6}}
	if !w.ActiveOn(0) || !w.ActiveOn(6) {
		t.Error("window should be active on its listed days")
	}
	if w.ActiveOn(3) {
		t.Error("window should not be active on an unlisted day")
	}
}
