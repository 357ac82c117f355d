package scheduler

import (
	"math"

	"github.com/julianstephens/fieldplan/internal/models"
)

type DragPhase int

const (
	DragIdle DragPhase = iota
	DragDragging
)

func (p DragPhase) String() string {
	switch p {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is a single pointer sample in chart coordinates. X is measured
// in the same unit as Grid.ColumnWidth (pixels, or terminal cells).
type PointerEvent struct {
	Kind PointerKind
	X    float64

	// Set on PointerDown only: the bar that was grabbed and the column it
	// currently starts in.
	ActivityID models.ActivityID
	Column     int
}

// Grid describes the chart the pointer moves over.
type Grid struct {
	ColumnWidth float64
	Columns     int
}

// DragState is the state carried between pointer events.
type DragState struct {
	Phase        DragPhase
	ActivityID   models.ActivityID
	OriginX      float64
	OriginColumn int
	Column       int // current snapped column
}

// Offset is the displayed left offset of the dragged bar. It is always a whole
// multiple of the column width.
func (s DragState) Offset(g Grid) float64 {
	return float64(s.Column) * g.ColumnWidth
}

// DragOutcome reports what a step produced.
type DragOutcome struct {
	// Committed is set on the PointerUp that drops a bar on a valid column.
	Committed bool
	// Reverted is set on the PointerUp that drops a bar outside the window.
	Reverted bool
	// Column is the snapped column after the step; on a revert it is the
	// column the drag started from.
	Column int
	Offset float64
}

// Step advances the drag machine by one pointer event. It is a pure function.
//
//	Idle     --down-->  Dragging
//	Dragging --move-->  Dragging (snapped)
//	Dragging --up---->  Idle (commit or revert)
//
// A PointerDown while dragging is ignored, as are moves and ups while idle.
func Step(state DragState, ev PointerEvent, g Grid) (DragState, DragOutcome) {
	switch state.Phase {
	case DragIdle:
		if ev.Kind != PointerDown {
			return state, DragOutcome{}
		}
		next := DragState{
			Phase:        DragDragging,
			ActivityID:   ev.ActivityID,
			OriginX:      ev.X,
			OriginColumn: ev.Column,
			Column:       ev.Column,
		}
		return next, DragOutcome{Column: next.Column, Offset: next.Offset(g)}

	case DragDragging:
		switch ev.Kind {
		case PointerMove:
			state.Column = snapColumn(state, ev.X, g)
			return state, DragOutcome{Column: state.Column, Offset: state.Offset(g)}

		case PointerUp:
			col := snapColumn(state, ev.X, g)
			if col >= 0 && col < g.Columns {
				return DragState{}, DragOutcome{
					Committed: true,
					Column:    col,
					Offset:    float64(col) * g.ColumnWidth,
				}
			}
			return DragState{}, DragOutcome{
				Reverted: true,
				Column:   state.OriginColumn,
				Offset:   float64(state.OriginColumn) * g.ColumnWidth,
			}
		}
	}
	return state, DragOutcome{Column: state.Column, Offset: state.Offset(g)}
}

// snapColumn rounds the raw bar position to the nearest column, ties away
// from the start, and clamps it into [0, Columns-1].
func snapColumn(state DragState, x float64, g Grid) int {
	if g.ColumnWidth <= 0 || g.Columns <= 0 {
		return state.OriginColumn
	}
	raw := float64(state.OriginColumn)*g.ColumnWidth + (x - state.OriginX)
	col := int(math.Floor(raw/g.ColumnWidth + 0.5))
	return clamp(col, 0, g.Columns-1)
}
