package scheduler

import "github.com/julianstephens/fieldplan/internal/models"

// Row is one chart line: every activity that shares a subject name.
type Row struct {
	Subject    string
	Activities []models.Activity
}

// GroupRows groups activities by SubjectName in a single stable pass. Rows
// appear in the order their subject is first seen and keep the input order of
// their activities. Every row has at least one activity.
func GroupRows(acts []models.Activity) []Row {
	var rows []Row
	pos := make(map[string]int)
	for _, a := range acts {
		i, ok := pos[a.SubjectName]
		if !ok {
			i = len(rows)
			pos[a.SubjectName] = i
			rows = append(rows, Row{Subject: a.SubjectName})
		}
		rows[i].Activities = append(rows[i].Activities, a)
	}
	return rows
}

// PlacedBar is a resolved bar together with the activity it draws.
type PlacedBar struct {
	Activity models.Activity
	Bar      Bar
}

// RowLayout is a row with the bars that are visible in the current window.
// Bars may be empty when none of the row's activities intersect the window.
type RowLayout struct {
	Subject string
	Bars    []PlacedBar
}

// Layout is everything a renderer needs to draw one month.
type Layout struct {
	Window Window
	Rows   []RowLayout
	// Empty is set when there are no activities at all; renderers show a
	// placeholder instead of rows.
	Empty bool
}

// BuildLayout resolves every activity against w. Rows are derived from the
// whole collection, so a subject keeps its row even in months where none of
// its activities are visible.
func BuildLayout(acts []models.Activity, w Window) Layout {
	layout := Layout{Window: w, Empty: len(acts) == 0}
	for _, row := range GroupRows(acts) {
		rl := RowLayout{Subject: row.Subject}
		for _, a := range row.Activities {
			if bar, ok := Resolve(a, w); ok {
				rl.Bars = append(rl.Bars, PlacedBar{Activity: a, Bar: bar})
			}
		}
		layout.Rows = append(layout.Rows, rl)
	}
	return layout
}

// Find returns the visible bar for id, if any.
func (l Layout) Find(id models.ActivityID) (PlacedBar, bool) {
	for _, row := range l.Rows {
		for _, pb := range row.Bars {
			if pb.Activity.ID == id {
				return pb, true
			}
		}
	}
	return PlacedBar{}, false
}
