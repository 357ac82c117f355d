package scheduler

import (
	"sort"
	"time"

	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/utils"
)

// Upcoming filters acts to those touching the period from today through
// today+days, both ends included. An activity qualifies when it starts in the
// period, ends in it, or is already in progress today.
func Upcoming(acts []models.Activity, today time.Time, days int) []models.Activity {
	if days <= 0 {
		return nil
	}
	from := utils.Civil(today)
	to := utils.AddDays(from, days)

	var out []models.Activity
	for _, a := range acts {
		if a.IsDeleted() {
			continue
		}
		if a.Overlaps(from, to) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate < out[j].StartDate
	})
	return out
}
