package scheduler

import (
	"testing"
	"time"

	"github.com/julianstephens/fieldplan/internal/utils"
)

func TestNewWindowCoversWholeMonth(t *testing.T) {
	tests := []struct {
		name  string
		ref   time.Time
		first string
		last  string
		len   int
	}{
		{"december", date(2025, time.December, 15), "2025-12-01", "2025-12-31", 31},
		{"leap february", date(2024, time.February, 29), "2024-02-01", "2024-02-29", 29},
		{"february", date(2025, time.February, 1), "2025-02-01", "2025-02-28", 28},
		{"april", date(2025, time.April, 30), "2025-04-01", "2025-04-30", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.ref)
			if got := utils.DateKey(w.First()); got != tt.first {
				t.Errorf("First() = %s, want %s", got, tt.first)
			}
			if got := utils.DateKey(w.Last()); got != tt.last {
				t.Errorf("Last() = %s, want %s", got, tt.last)
			}
			if w.Len() != tt.len {
				t.Errorf("Len() = %d, want %d", w.Len(), tt.len)
			}

			dates := w.Dates()
			for i := 1; i < len(dates); i++ {
				if utils.DaysBetween(dates[i-1], dates[i]) != 1 {
					t.Fatalf("dates %s and %s are not consecutive", dates[i-1], dates[i])
				}
			}
		})
	}
}

func TestNewWindowIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	w := NewWindow(time.Date(2025, time.December, 31, 23, 30, 0, 0, loc))

	if got := utils.DateKey(w.First()); got != "2025-12-01" {
		t.Errorf("First() = %s, want 2025-12-01", got)
	}
}

func TestWindowIndexOf(t *testing.T) {
	w := NewWindow(december2025)

	i, ok := w.IndexOf(date(2025, time.December, 5))
	if !ok || i != 4 {
		t.Errorf("IndexOf(Dec 5) = %d, %v; want 4, true", i, ok)
	}

	if _, ok := w.IndexOf(date(2025, time.November, 30)); ok {
		t.Error("IndexOf(Nov 30) found a column, want none")
	}

	d, ok := w.DateAt(30)
	if !ok || utils.DateKey(d) != "2025-12-31" {
		t.Errorf("DateAt(30) = %s, %v; want 2025-12-31, true", d, ok)
	}
	if _, ok := w.DateAt(31); ok {
		t.Error("DateAt(31) found a date past the window")
	}
	if _, ok := w.DateAt(-1); ok {
		t.Error("DateAt(-1) found a date before the window")
	}
}

func TestWindowNavigationNeverSkipsAMonth(t *testing.T) {
	w := NewWindow(date(2025, time.January, 31))

	want := []string{"2025-02", "2025-03", "2025-04", "2025-05"}
	for _, m := range want {
		w = w.Next()
		if got := w.First().Format("2006-01"); got != m {
			t.Fatalf("Next() = %s, want %s", got, m)
		}
	}

	w = NewWindow(date(2025, time.March, 31)).Prev()
	if got := w.First().Format("2006-01"); got != "2025-02" {
		t.Errorf("Prev() from March 31 = %s, want 2025-02", got)
	}
}

func TestWindowDatesIsACopy(t *testing.T) {
	w := NewWindow(december2025)
	dates := w.Dates()
	dates[0] = date(1999, time.January, 1)

	if utils.DateKey(w.First()) != "2025-12-01" {
		t.Error("modifying Dates() result changed the window")
	}
}
