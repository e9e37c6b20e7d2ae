package domain

import (
	"errors"
	"testing"
)

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "valid range", start: "10:00", end: "11:00"},
		{name: "one minute", start: "10:00", end: "10:01"},
		{name: "zero duration rejected", start: "10:00", end: "10:00", wantErr: true},
		{name: "inverted rejected", start: "11:00", end: "10:00", wantErr: true},
		{name: "bad start", start: "25:00", end: "11:00", wantErr: true},
		{name: "bad end", start: "10:00", end: "11:60", wantErr: true},
		{name: "not a clock", start: "banana", end: "11:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterval(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeRange) {
					t.Errorf("expected ErrInvalidTimeRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{name: "identical", a: Interval{600, 660}, b: Interval{600, 660}, want: true},
		{name: "partial overlap", a: Interval{600, 660}, b: Interval{630, 690}, want: true},
		{name: "contained", a: Interval{600, 720}, b: Interval{630, 660}, want: true},
		{name: "back to back after", a: Interval{600, 660}, b: Interval{660, 720}, want: false},
		{name: "back to back before", a: Interval{660, 720}, b: Interval{600, 660}, want: false},
		{name: "disjoint", a: Interval{600, 660}, b: Interval{720, 780}, want: false},
		{name: "one minute shared", a: Interval{600, 661}, b: Interval{660, 720}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestFirstConflict(t *testing.T) {
	existing := []*Booking{
		{ID: "b1", StartTime: "09:00", EndTime: "10:00"},
		{ID: "b2", StartTime: "10:00", EndTime: "11:00"},
		{ID: "b3", StartTime: "14:00", EndTime: "15:30"},
	}

	t.Run("free slot", func(t *testing.T) {
		candidate, _ := NewInterval("11:00", "12:00")
		if got := FirstConflict(candidate, existing); got != nil {
			t.Errorf("expected no conflict, got booking %s", got.ID)
		}
	})

	t.Run("overlapping slot reports a conflict", func(t *testing.T) {
		candidate, _ := NewInterval("10:30", "11:30")
		if got := FirstConflict(candidate, existing); got == nil {
			t.Error("expected a conflict, got none")
		}
	})

	t.Run("back to back never conflicts", func(t *testing.T) {
		candidate, _ := NewInterval("15:30", "16:30")
		if got := FirstConflict(candidate, existing); got != nil {
			t.Errorf("expected no conflict, got booking %s", got.ID)
		}
	})

	t.Run("empty set", func(t *testing.T) {
		candidate, _ := NewInterval("10:00", "11:00")
		if got := FirstConflict(candidate, nil); got != nil {
			t.Errorf("expected no conflict, got booking %s", got.ID)
		}
	})
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("13:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 13*60+45 {
		t.Errorf("ParseClock(13:45) = %d, want %d", got, 13*60+45)
	}

	if _, err := ParseClock("9am"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	if err := ParseDate("2025-12-31"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ParseDate("31/12/2025"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}
