package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewActivity(t *testing.T) {
	a, err := NewActivity("Tomatoes", "Nursery", "2025-12-05", 10)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}
	if a.ID == "" {
		t.Error("NewActivity() did not assign an ID")
	}
	if a.EndDate != "2025-12-14" {
		t.Errorf("EndDate = %q, want %q", a.EndDate, "2025-12-14")
	}

	b, err := NewActivity("Tomatoes", "Nursery", "2025-12-05", 10)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}
	if a.ID == b.ID {
		t.Error("NewActivity() returned duplicate IDs")
	}
}

func TestNewActivityRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		kind     ActivityKind
		start    string
		duration int
		wantErr  error
	}{
		{"zero duration", "Maize", "Harvest", "2025-12-01", 0, ErrInvalidDuration},
		{"negative duration", "Maize", "Harvest", "2025-12-01", -3, ErrInvalidDuration},
		{"unparsable start", "Maize", "Harvest", "2025-12-32", 3, ErrInvalidDate},
		{"missing subject", "  ", "Harvest", "2025-12-01", 3, ErrMissingSubject},
		{"missing kind", "Maize", "", "2025-12-01", 3, ErrMissingKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewActivity(tt.subject, tt.kind, tt.start, tt.duration)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewActivity() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEndDateIsInclusive(t *testing.T) {
	tests := []struct {
		start    string
		duration int
		want     string
	}{
		{"2025-12-05", 1, "2025-12-05"},
		{"2025-12-05", 10, "2025-12-14"},
		{"2025-11-28", 10, "2025-12-07"},
		{"2024-02-27", 3, "2024-02-29"},
		{"2025-12-30", 5, "2026-01-03"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			a := Activity{StartDate: tt.start, DurationDays: tt.duration}
			if err := a.RecomputeEnd(); err != nil {
				t.Fatalf("RecomputeEnd() error = %v", err)
			}
			if a.EndDate != tt.want {
				t.Errorf("EndDate = %q, want %q", a.EndDate, tt.want)
			}
		})
	}
}

func TestRescheduleKeepsDuration(t *testing.T) {
	a, err := NewActivity("Onions", "Transplanting", "2025-12-02", 3)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}

	a.Reschedule(time.Date(2025, time.December, 30, 15, 0, 0, 0, time.UTC))

	if a.StartDate != "2025-12-30" || a.EndDate != "2026-01-01" {
		t.Errorf("Reschedule() = %s..%s, want 2025-12-30..2026-01-01", a.StartDate, a.EndDate)
	}
	if a.DurationDays != 3 {
		t.Errorf("DurationDays = %d, want 3", a.DurationDays)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() after Reschedule error = %v", err)
	}
}

func TestSetDuration(t *testing.T) {
	a, _ := NewActivity("Onions", "Weeding", "2025-12-02", 3)

	if err := a.SetDuration(0); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("SetDuration(0) error = %v, want %v", err, ErrInvalidDuration)
	}
	if a.DurationDays != 3 || a.EndDate != "2025-12-04" {
		t.Errorf("failed SetDuration changed the activity: %+v", a)
	}

	if err := a.SetDuration(7); err != nil {
		t.Fatalf("SetDuration(7) error = %v", err)
	}
	if a.EndDate != "2025-12-08" {
		t.Errorf("EndDate = %q, want %q", a.EndDate, "2025-12-08")
	}
}

func TestValidateDetectsStaleEndDate(t *testing.T) {
	a, _ := NewActivity("Cabbage", "Harvest", "2025-12-05", 10)
	a.EndDate = "2025-12-15"

	if err := a.Validate(); !errors.Is(err, ErrStaleEndDate) {
		t.Errorf("Validate() error = %v, want %v", err, ErrStaleEndDate)
	}
}

func TestOverlaps(t *testing.T) {
	a, _ := NewActivity("Beans", "Sowing", "2025-11-28", 10) // ends 2025-12-07
	dec1 := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	dec31 := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	dec8 := time.Date(2025, time.December, 8, 0, 0, 0, 0, time.UTC)

	if !a.Overlaps(dec1, dec31) {
		t.Error("Overlaps(December) = false, want true")
	}
	if a.Overlaps(dec8, dec31) {
		t.Error("Overlaps(Dec 8-31) = true, want false")
	}
}
