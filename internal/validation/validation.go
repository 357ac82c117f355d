package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/fieldplan/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidActivity ConflictType = "invalid_activity"
	ConflictStaleEndDate    ConflictType = "stale_end_date"
	ConflictDuplicateID     ConflictType = "duplicate_id"
	ConflictOverlappingKind ConflictType = "overlapping_kind"
)

// Conflict is one problem found in the activity collection.
type Conflict struct {
	Type        ConflictType
	Description string
	Subject     string
	ActivityIDs []models.ActivityID
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// FixAction describes a change made by Fix.
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (r Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Count returns how many conflicts of type t were found.
func (r Result) Count(t ConflictType) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (r Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validate checks live activities for records that would be rejected on
// entry, duplicated IDs, and activities of the same kind that overlap
// within one subject's row.
func Validate(acts []models.Activity) Result {
	var result Result

	live := make([]models.Activity, 0, len(acts))
	for _, a := range acts {
		if !a.IsDeleted() {
			live = append(live, a)
		}
	}

	seen := make(map[models.ActivityID]int)
	for _, a := range live {
		seen[a.ID]++
	}
	var dupIDs []models.ActivityID
	for id, n := range seen {
		if n > 1 {
			dupIDs = append(dupIDs, id)
		}
	}
	sort.Slice(dupIDs, func(i, j int) bool { return dupIDs[i] < dupIDs[j] })
	for _, id := range dupIDs {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("Activity ID %s is used by %d records", id, seen[id]),
			ActivityIDs: []models.ActivityID{id},
		})
	}

	var valid []models.Activity
	for _, a := range live {
		err := a.Validate()
		switch {
		case err == nil:
			valid = append(valid, a)
		case errors.Is(err, models.ErrStaleEndDate):
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStaleEndDate,
				Description: fmt.Sprintf("%s %q: %v", a.SubjectName, a.Kind, err),
				Subject:     a.SubjectName,
				ActivityIDs: []models.ActivityID{a.ID},
			})
		default:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidActivity,
				Description: fmt.Sprintf("Activity %s (%s): %v", a.ID, a.SubjectName, err),
				Subject:     a.SubjectName,
				ActivityIDs: []models.ActivityID{a.ID},
			})
		}
	}

	result.Conflicts = append(result.Conflicts, overlaps(valid)...)
	return result
}

// overlaps reports pairs of same-kind activities in one subject whose date
// ranges intersect, such as two harvests of the same crop on the same days.
func overlaps(acts []models.Activity) []Conflict {
	type key struct {
		subject string
		kind    models.ActivityKind
	}
	groups := make(map[key][]models.Activity)
	var order []key
	for _, a := range acts {
		k := key{a.SubjectName, a.Kind}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], a)
	}

	var conflicts []Conflict
	for _, k := range order {
		group := groups[k]
		sort.SliceStable(group, func(i, j int) bool { return group[i].StartDate < group[j].StartDate })
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if b.StartDate > a.EndDate {
					break
				}
				conflicts = append(conflicts, Conflict{
					Type: ConflictOverlappingKind,
					Description: fmt.Sprintf("%s has overlapping %s activities: %s..%s and %s..%s",
						k.subject, k.kind, a.StartDate, a.EndDate, b.StartDate, b.EndDate),
					Subject:     k.subject,
					ActivityIDs: []models.ActivityID{a.ID, b.ID},
				})
			}
		}
	}
	return conflicts
}

// Fix repairs the conflicts that have a single safe resolution: stale end
// dates are recomputed from start and duration. It returns the activities
// that changed along with a description of each change.
func Fix(acts []models.Activity, result Result) ([]models.Activity, []FixAction) {
	byID := make(map[models.ActivityID]models.Activity, len(acts))
	for _, a := range acts {
		byID[a.ID] = a
	}

	var changed []models.Activity
	var actions []FixAction
	for _, c := range result.Conflicts {
		if c.Type != ConflictStaleEndDate {
			continue
		}
		a, ok := byID[c.ActivityIDs[0]]
		if !ok {
			continue
		}
		old := a.EndDate
		if err := a.RecomputeEnd(); err != nil {
			continue
		}
		changed = append(changed, a)
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Recomputed end date of %s %q: %s -> %s", a.SubjectName, a.Kind, old, a.EndDate),
			SourceConflict: c,
		})
	}
	return changed, actions
}
