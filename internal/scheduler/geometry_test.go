package scheduler

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/fieldplan/internal/utils"
)

func TestResolve(t *testing.T) {
	w := NewWindow(december2025)

	tests := []struct {
		name     string
		start    string
		duration int
		want     Bar
		visible  bool
	}{
		{"contained", "2025-12-05", 10, Bar{ColumnStart: 4, ColumnSpan: 10}, true},
		{"starts before window", "2025-11-28", 10, Bar{ColumnStart: 0, ColumnSpan: 7}, true},
		{"months earlier", "2025-06-01", 5, Bar{}, false},
		{"ends the day before", "2025-11-22", 9, Bar{}, false},
		{"starts the day after", "2026-01-01", 3, Bar{}, false},
		{"single day on first column", "2025-12-01", 1, Bar{ColumnStart: 0, ColumnSpan: 1}, true},
		{"single day on last column", "2025-12-31", 1, Bar{ColumnStart: 30, ColumnSpan: 1}, true},
		{"runs past window", "2025-12-25", 10, Bar{ColumnStart: 24, ColumnSpan: 7}, true},
		{"spans whole window", "2025-11-20", 60, Bar{ColumnStart: 0, ColumnSpan: 31}, true},
		{"ends on first day", "2025-11-29", 3, Bar{ColumnStart: 0, ColumnSpan: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := activity(t, "a", "Tomatoes", tt.start, tt.duration)
			got, ok := Resolve(a, w)
			if ok != tt.visible {
				t.Fatalf("Resolve() visible = %v, want %v", ok, tt.visible)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveScenarioEndDates(t *testing.T) {
	a := activity(t, "a", "Tomatoes", "2025-12-05", 10)
	if a.EndDate != "2025-12-14" {
		t.Errorf("EndDate = %s, want 2025-12-14", a.EndDate)
	}
	b := activity(t, "b", "Tomatoes", "2025-11-28", 10)
	if b.EndDate != "2025-12-07" {
		t.Errorf("EndDate = %s, want 2025-12-07", b.EndDate)
	}
}

// Sweeps a range of start dates and durations across the December window and
// checks the geometry properties that must hold for every activity.
func TestResolveProperties(t *testing.T) {
	w := NewWindow(december2025)
	sweepStart := date(2025, time.October, 15)

	for offset := 0; offset < 100; offset++ {
		for _, duration := range []int{1, 2, 3, 7, 10, 31, 45} {
			start := utils.AddDays(sweepStart, offset)
			a := activity(t, "a", "Maize", utils.DateKey(start), duration)
			end, _ := a.End()

			bar, ok := Resolve(a, w)
			disjoint := end.Before(w.First()) || start.After(w.Last())

			if disjoint {
				if ok {
					t.Errorf("%s+%d: disjoint activity resolved to %+v", a.StartDate, duration, bar)
				}
				continue
			}
			if !ok {
				t.Errorf("%s+%d: overlapping activity not visible", a.StartDate, duration)
				continue
			}

			if bar.ColumnStart < 0 || bar.ColumnEnd() > w.Len()-1 || bar.ColumnSpan < 1 {
				t.Errorf("%s+%d: bar %+v outside [0, %d]", a.StartDate, duration, bar, w.Len()-1)
			}

			contained := !start.Before(w.First()) && !end.After(w.Last())
			if contained && bar.ColumnSpan != duration {
				t.Errorf("%s+%d: contained span = %d, want %d", a.StartDate, duration, bar.ColumnSpan, duration)
			}
			if !contained && bar.ColumnSpan >= duration {
				t.Errorf("%s+%d: partial span = %d, want < %d", a.StartDate, duration, bar.ColumnSpan, duration)
			}

			again, _ := Resolve(a, w)
			if again != bar {
				t.Errorf("%s+%d: Resolve not idempotent: %+v then %+v", a.StartDate, duration, bar, again)
			}
		}
	}
}
