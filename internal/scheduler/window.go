package scheduler

import (
	"time"

	"github.com/julianstephens/fieldplan/internal/utils"
)

// Window is the ordered, contiguous run of dates shown by the chart: every
// day of one calendar month. Column i of the chart is Dates()[i].
type Window struct {
	ref   time.Time
	dates []time.Time
	index map[string]int
}

// NewWindow returns the window for the month containing ref.
func NewWindow(ref time.Time) Window {
	ref = utils.Civil(ref)
	first := utils.FirstOfMonth(ref)
	n := utils.DaysInMonth(ref)

	w := Window{
		ref:   ref,
		dates: make([]time.Time, n),
		index: make(map[string]int, n),
	}
	for i := 0; i < n; i++ {
		d := utils.AddDays(first, i)
		w.dates[i] = d
		w.index[utils.DateKey(d)] = i
	}
	return w
}

// Reference returns the date the window was built from.
func (w Window) Reference() time.Time { return w.ref }

func (w Window) First() time.Time { return w.dates[0] }

func (w Window) Last() time.Time { return w.dates[len(w.dates)-1] }

// Len is the number of day columns.
func (w Window) Len() int { return len(w.dates) }

// DateAt returns the date of column i.
func (w Window) DateAt(i int) (time.Time, bool) {
	if i < 0 || i >= len(w.dates) {
		return time.Time{}, false
	}
	return w.dates[i], true
}

// IndexOf returns the column of date d, matched by calendar day.
func (w Window) IndexOf(d time.Time) (int, bool) {
	i, ok := w.index[utils.DateKey(d)]
	return i, ok
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	_, ok := w.IndexOf(d)
	return ok
}

// Dates returns a copy of the window's dates in ascending order.
func (w Window) Dates() []time.Time {
	out := make([]time.Time, len(w.dates))
	copy(out, w.dates)
	return out
}

// Next returns the window for the following month.
func (w Window) Next() Window { return NewWindow(utils.AddMonths(w.ref, 1)) }

// Prev returns the window for the preceding month.
func (w Window) Prev() Window { return NewWindow(utils.AddMonths(w.ref, -1)) }
