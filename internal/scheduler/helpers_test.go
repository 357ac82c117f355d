package scheduler

import (
	"testing"
	"time"

	"github.com/julianstephens/fieldplan/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var december2025 = date(2025, time.December, 15)

func activity(t *testing.T, id, subject, start string, duration int) models.Activity {
	t.Helper()
	a := models.Activity{
		ID:           models.ActivityID(id),
		SubjectName:  subject,
		Kind:         "Nursery",
		StartDate:    start,
		DurationDays: duration,
	}
	if err := a.RecomputeEnd(); err != nil {
		t.Fatalf("RecomputeEnd(%s, %d) error = %v", start, duration, err)
	}
	return a
}
