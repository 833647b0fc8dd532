package block

import "testing"

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		want       []HourRange
	}{
		{name: "plain range", start: 9, end: 17, want: []HourRange{{9, 17}}},
		{name: "full day", start: 0, end: 24, want: []HourRange{{0, 24}}},
		{name: "wraps midnight", start: 22, end: 6, want: []HourRange{{22, 24}, {0, 6}}},
		{name: "wraps with fractions", start: 23.5, end: 0.25, want: []HourRange{{23.5, 24}, {0, 0.25}}},
		{name: "zero width passes through", start: 8, end: 8, want: []HourRange{{8, 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRange(tt.start, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeRange(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		a0, a1, b0, b1 float64
		want           bool
	}{
		{name: "disjoint", a0: 9, a1: 10, b0: 11, b1: 12, want: false},
		{name: "touching endpoints", a0: 9, a1: 10, b0: 10, b1: 11, want: false},
		{name: "touching reversed", a0: 10, a1: 11, b0: 9, b1: 10, want: false},
		{name: "partial", a0: 9, a1: 10.5, b0: 10, b1: 11, want: true},
		{name: "identical", a0: 9, a1: 11, b0: 9, b1: 11, want: true},
		{name: "contained", a0: 9, a1: 12, b0: 10, b1: 11, want: true},
		{name: "quarter hour sliver", a0: 9, a1: 9.25, b0: 9.2, b1: 9.5, want: true},
		{name: "zero width never overlaps", a0: 9, a1: 9, b0: 8, b1: 10, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.a0, tt.a1, tt.b0, tt.b1)
			if got != tt.want {
				t.Errorf("Overlaps(%v, %v, %v, %v) = %v, want %v",
					tt.a0, tt.a1, tt.b0, tt.b1, got, tt.want)
			}
		})
	}
}

func TestHourRangeIsEmpty(t *testing.T) {
	if !(HourRange{Start: 8, End: 8}).IsEmpty() {
		t.Error("zero-width range should be empty")
	}
	if !(HourRange{Start: 9, End: 8}).IsEmpty() {
		t.Error("inverted range should be empty")
	}
	if (HourRange{Start: 8, End: 8.25}).IsEmpty() {
		t.Error("quarter-hour range should not be empty")
	}
}
