package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/fieldplan/internal/utils"
)

// ActivityID is an opaque identifier. It is compared for equality only;
// no ordering or arithmetic is ever performed on it.
type ActivityID string

// ActivityKind is a display category such as "Nursery" or "Harvest".
type ActivityKind string

var (
	ErrInvalidDuration = errors.New("duration must be greater than zero")
	ErrInvalidDate     = errors.New("invalid date")
	ErrStaleEndDate    = errors.New("end date does not match start date and duration")
	ErrMissingSubject  = errors.New("subject name is required")
	ErrMissingKind     = errors.New("activity kind is required")
	ErrMissingID       = errors.New("activity id is required")

	ErrActivityNotFound = errors.New("activity not found")
)

// NewActivityID returns a fresh random identifier.
func NewActivityID() ActivityID {
	return ActivityID(uuid.New().String())
}

type Activity struct {
	ID           ActivityID   `json:"id" yaml:"id,omitempty"`
	SubjectName  string       `json:"subject_name" yaml:"crop"`
	FieldName    string       `json:"field_name,omitempty" yaml:"field,omitempty"`
	Season       string       `json:"season,omitempty" yaml:"season,omitempty"`
	Kind         ActivityKind `json:"activity_kind" yaml:"activity"`
	StartDate    string       `json:"start_date" yaml:"start"`       // YYYY-MM-DD format
	DurationDays int          `json:"duration_days" yaml:"duration"` // inclusive day count
	EndDate      string       `json:"end_date" yaml:"end,omitempty"` // YYYY-MM-DD format, derived
	DeletedAt    *string      `json:"deleted_at,omitempty" yaml:"-"` // RFC3339 timestamp
}

// NewActivity builds a validated activity with a fresh ID and a derived end date.
func NewActivity(subject string, kind ActivityKind, startDate string, durationDays int) (Activity, error) {
	a := Activity{
		ID:           NewActivityID(),
		SubjectName:  strings.TrimSpace(subject),
		Kind:         ActivityKind(strings.TrimSpace(string(kind))),
		StartDate:    startDate,
		DurationDays: durationDays,
	}
	if err := a.RecomputeEnd(); err != nil {
		return Activity{}, err
	}
	if err := a.Validate(); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// EndDateFor returns start + (duration - 1) days. Durations are inclusive of
// the start day, so a one-day activity ends on the day it starts.
func EndDateFor(start time.Time, durationDays int) time.Time {
	return utils.AddDays(start, durationDays-1)
}

// Start returns the parsed start date.
func (a Activity) Start() (time.Time, error) {
	t, err := utils.ParseDate(a.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start date %q", ErrInvalidDate, a.StartDate)
	}
	return t, nil
}

// End returns the parsed end date.
func (a Activity) End() (time.Time, error) {
	t, err := utils.ParseDate(a.EndDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: end date %q", ErrInvalidDate, a.EndDate)
	}
	return t, nil
}

// RecomputeEnd derives EndDate from StartDate and DurationDays.
func (a *Activity) RecomputeEnd() error {
	if a.DurationDays <= 0 {
		return ErrInvalidDuration
	}
	start, err := a.Start()
	if err != nil {
		return err
	}
	a.EndDate = utils.DateKey(EndDateFor(start, a.DurationDays))
	return nil
}

// Reschedule moves the activity to a new start date, keeping its duration.
func (a *Activity) Reschedule(start time.Time) {
	start = utils.Civil(start)
	a.StartDate = utils.DateKey(start)
	a.EndDate = utils.DateKey(EndDateFor(start, a.DurationDays))
}

// SetDuration changes the duration and re-derives the end date.
func (a *Activity) SetDuration(days int) error {
	if days <= 0 {
		return ErrInvalidDuration
	}
	a.DurationDays = days
	return a.RecomputeEnd()
}

// IsDeleted reports whether the activity has been soft-deleted.
func (a Activity) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Overlaps reports whether the activity's [start, end] interval intersects [from, to].
func (a Activity) Overlaps(from, to time.Time) bool {
	start, err := a.Start()
	if err != nil {
		return false
	}
	end, err := a.End()
	if err != nil {
		return false
	}
	return !end.Before(from) && !start.After(to)
}

// Validate checks the invariants an activity must satisfy before it enters
// a collection: positive duration, parseable dates and an end date that
// matches start + duration - 1.
func (a Activity) Validate() error {
	if a.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(a.SubjectName) == "" {
		return ErrMissingSubject
	}
	if strings.TrimSpace(string(a.Kind)) == "" {
		return ErrMissingKind
	}
	if a.DurationDays <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidDuration, a.DurationDays)
	}
	start, err := a.Start()
	if err != nil {
		return err
	}
	end, err := a.End()
	if err != nil {
		return err
	}
	if want := EndDateFor(start, a.DurationDays); !end.Equal(want) {
		return fmt.Errorf("%w: got %s, want %s", ErrStaleEndDate, a.EndDate, utils.DateKey(want))
	}
	return nil
}

// Label returns the text shown on a bar.
func (a Activity) Label() string {
	return fmt.Sprintf("%s (%dd)", a.Kind, a.DurationDays)
}
