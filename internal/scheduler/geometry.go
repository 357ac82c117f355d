package scheduler

import "github.com/julianstephens/fieldplan/internal/models"

// Bar is the horizontal placement of one activity in a window, in day columns.
type Bar struct {
	ColumnStart int
	ColumnSpan  int
}

// ColumnEnd is the last column the bar covers.
func (b Bar) ColumnEnd() int { return b.ColumnStart + b.ColumnSpan - 1 }

// Resolve places a within w. The second result is false when the activity
// does not intersect the window. Activities that start before the window are
// pinned to column 0; activities that run past it are cut at the last column.
func Resolve(a models.Activity, w Window) (Bar, bool) {
	start, err := a.Start()
	if err != nil {
		return Bar{}, false
	}
	end, err := a.End()
	if err != nil {
		return Bar{}, false
	}
	if end.Before(w.First()) || start.After(w.Last()) {
		return Bar{}, false
	}

	startIndex, ok := w.IndexOf(start)
	if !ok {
		startIndex = 0
	}

	endIndex, ok := w.IndexOf(end)
	if !ok {
		endIndex = clamp(startIndex+a.DurationDays-1, 0, w.Len()-1)
	}

	return Bar{ColumnStart: startIndex, ColumnSpan: endIndex - startIndex + 1}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
