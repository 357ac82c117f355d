package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/utils"
)

var (
	ErrActivityNotFound  = models.ErrActivityNotFound
	ErrDuplicateActivity = errors.New("activity already exists")
	ErrNotVisible        = errors.New("activity is not visible in the current window")
	ErrDragInProgress    = errors.New("a drag is already in progress")
)

// Scheduler owns an activity collection, the month being viewed and the state
// of any drag in progress. It is not safe for concurrent use; one caller (a
// CLI command or the TUI update loop) owns it at a time.
type Scheduler struct {
	activities  []models.Activity
	window      Window
	columnWidth float64
	drag        DragState
}

// New returns an empty scheduler viewing the month that contains ref.
// columnWidth is the width of one day column in pointer units.
func New(ref time.Time, columnWidth float64) *Scheduler {
	return &Scheduler{
		window:      NewWindow(ref),
		columnWidth: columnWidth,
	}
}

// Load replaces the collection. Soft-deleted activities are skipped; every
// other activity must be valid and have a unique ID.
func (s *Scheduler) Load(acts []models.Activity) error {
	seen := make(map[models.ActivityID]bool, len(acts))
	loaded := make([]models.Activity, 0, len(acts))
	for _, a := range acts {
		if a.IsDeleted() {
			continue
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
		if seen[a.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateActivity, a.ID)
		}
		seen[a.ID] = true
		loaded = append(loaded, a)
	}
	s.activities = loaded
	s.drag = DragState{}
	return nil
}

// Activities returns a copy of the collection in insertion order.
func (s *Scheduler) Activities() []models.Activity {
	out := make([]models.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

func (s *Scheduler) Len() int { return len(s.activities) }

func (s *Scheduler) indexOf(id models.ActivityID) int {
	for i, a := range s.activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Scheduler) Get(id models.ActivityID) (models.Activity, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	return s.activities[i], nil
}

// Add appends a validated activity to the collection.
func (s *Scheduler) Add(a models.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if s.indexOf(a.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateActivity, a.ID)
	}
	s.activities = append(s.activities, a)
	return nil
}

// Update replaces the activity with the same ID.
func (s *Scheduler) Update(a models.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}
	i := s.indexOf(a.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, a.ID)
	}
	s.activities[i] = a
	return nil
}

// Delete removes the activity from the collection.
func (s *Scheduler) Delete(id models.ActivityID) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	s.activities = append(s.activities[:i], s.activities[i+1:]...)
	if s.drag.ActivityID == id {
		s.drag = DragState{}
	}
	return nil
}

func (s *Scheduler) Window() Window { return s.window }

// JumpTo shows the month containing d.
func (s *Scheduler) JumpTo(d time.Time) { s.showWindow(NewWindow(d)) }

func (s *Scheduler) showWindow(w Window) {
	s.window = w
	s.drag = DragState{}
}

// JumpToActivity shows the month containing the activity's start date.
func (s *Scheduler) JumpToActivity(id models.ActivityID) error {
	a, err := s.Get(id)
	if err != nil {
		return err
	}
	start, err := a.Start()
	if err != nil {
		return err
	}
	s.JumpTo(start)
	return nil
}

func (s *Scheduler) NextMonth() { s.showWindow(s.window.Next()) }

func (s *Scheduler) PrevMonth() { s.showWindow(s.window.Prev()) }

// Layout resolves the collection against the current window.
func (s *Scheduler) Layout() Layout {
	return BuildLayout(s.activities, s.window)
}

// Geometry returns the bar for a single activity in the current window.
func (s *Scheduler) Geometry(id models.ActivityID) (Bar, bool, error) {
	a, err := s.Get(id)
	if err != nil {
		return Bar{}, false, err
	}
	bar, ok := Resolve(a, s.window)
	return bar, ok, nil
}

func (s *Scheduler) Grid() Grid {
	return Grid{ColumnWidth: s.columnWidth, Columns: s.window.Len()}
}

// SetColumnWidth changes the pointer width of a day column. Any drag in
// progress is abandoned.
func (s *Scheduler) SetColumnWidth(w float64) {
	s.columnWidth = w
	s.drag = DragState{}
}

// Drag returns the current drag state.
func (s *Scheduler) Drag() DragState { return s.drag }

// Move is the result of releasing a drag.
type Move struct {
	Outcome  DragOutcome
	Activity models.Activity
	// Changed is set when the activity's dates differ from before the drag.
	// Callers persist Activity when it is set.
	Changed bool
}

// PointerDown starts dragging the bar of id at pointer position x. It is a
// no-op while another drag is in progress.
func (s *Scheduler) PointerDown(id models.ActivityID, x float64) (DragOutcome, error) {
	if s.drag.Phase == DragDragging {
		return DragOutcome{Column: s.drag.Column, Offset: s.drag.Offset(s.Grid())}, nil
	}
	bar, visible, err := s.Geometry(id)
	if err != nil {
		return DragOutcome{}, err
	}
	if !visible {
		return DragOutcome{}, fmt.Errorf("%w: %s", ErrNotVisible, id)
	}
	var out DragOutcome
	s.drag, out = Step(s.drag, PointerEvent{Kind: PointerDown, X: x, ActivityID: id, Column: bar.ColumnStart}, s.Grid())
	return out, nil
}

// PointerMove updates the snapped position of the dragged bar.
func (s *Scheduler) PointerMove(x float64) DragOutcome {
	var out DragOutcome
	s.drag, out = Step(s.drag, PointerEvent{Kind: PointerMove, X: x}, s.Grid())
	return out
}

// PointerUp ends the drag. On commit the activity is rescheduled to the date
// of the drop column, keeping its duration, and the collection is updated.
func (s *Scheduler) PointerUp(x float64) (Move, error) {
	if s.drag.Phase != DragDragging {
		return Move{}, nil
	}
	id := s.drag.ActivityID
	origin := s.drag.OriginColumn

	var out DragOutcome
	s.drag, out = Step(s.drag, PointerEvent{Kind: PointerUp, X: x}, s.Grid())
	if out.Committed && out.Column == origin {
		// A drop where the bar started, a plain click included, leaves the
		// dates alone. The origin of a bar cut off by the window is not its
		// start date.
		a, err := s.Get(id)
		return Move{Outcome: out, Activity: a}, err
	}
	return s.commit(id, out)
}

// Nudge shifts a visible activity by whole days from its stored start, as a
// keyboard alternative to dragging. Unlike a drop it is not clamped to the
// window, so the bar may leave the current month.
func (s *Scheduler) Nudge(id models.ActivityID, days int) (Move, error) {
	if s.drag.Phase == DragDragging {
		return Move{}, ErrDragInProgress
	}
	a, err := s.Get(id)
	if err != nil {
		return Move{}, err
	}
	if _, visible := Resolve(a, s.window); !visible {
		return Move{}, fmt.Errorf("%w: %s", ErrNotVisible, id)
	}
	if days == 0 {
		return Move{Activity: a}, nil
	}

	moved, err := s.Shift(id, days)
	if err != nil {
		return Move{}, err
	}
	out := DragOutcome{Committed: true}
	if bar, ok := Resolve(moved, s.window); ok {
		out.Column = bar.ColumnStart
		out.Offset = float64(bar.ColumnStart) * s.columnWidth
	}
	return Move{Outcome: out, Activity: moved, Changed: true}, nil
}

func (s *Scheduler) commit(id models.ActivityID, out DragOutcome) (Move, error) {
	if !out.Committed {
		return Move{Outcome: out}, nil
	}
	date, ok := s.window.DateAt(out.Column)
	if !ok {
		return Move{Outcome: out}, nil
	}
	i := s.indexOf(id)
	if i < 0 {
		return Move{Outcome: out}, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}

	a := s.activities[i]
	before := a.StartDate
	a.Reschedule(date)
	s.activities[i] = a
	return Move{Outcome: out, Activity: a, Changed: a.StartDate != before}, nil
}

// Shift moves an activity by a number of days without regard to the window.
func (s *Scheduler) Shift(id models.ActivityID, days int) (models.Activity, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	a := s.activities[i]
	start, err := a.Start()
	if err != nil {
		return models.Activity{}, err
	}
	a.Reschedule(utils.AddDays(start, days))
	s.activities[i] = a
	return a, nil
}

// Upcoming returns the activities touching the next days days, ordered by
// start date.
func (s *Scheduler) Upcoming(today time.Time, days int) []models.Activity {
	return Upcoming(s.activities, today, days)
}
