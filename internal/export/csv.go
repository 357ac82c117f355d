package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/julianstephens/fieldplan/internal/models"
)

// CSVHeader is the first row of every CSV export. ID comes last so the
// table reads the same as the planner's original export.
var CSVHeader = []string{"Crop", "Field", "Season", "Activity", "Start Date", "Duration", "End Date", "ID"}

var csvRequired = []string{"Crop", "Activity", "Start Date", "Duration"}

// WriteCSV writes one row per live activity, in collection order.
func WriteCSV(w io.Writer, acts []models.Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, a := range acts {
		if a.IsDeleted() {
			continue
		}
		row := []string{
			a.SubjectName,
			a.FieldName,
			a.Season,
			string(a.Kind),
			a.StartDate,
			strconv.Itoa(a.DurationDays),
			a.EndDate,
			string(a.ID),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table in the WriteCSV layout. Columns are matched by
// header name; ID, Field, Season and End Date may be absent. As with
// ReadYAML, missing ids are generated and end dates are derived.
func ReadCSV(r io.Reader) ([]models.Activity, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range csvRequired {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv header is missing the %q column", name)
		}
	}
	get := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var acts []models.Activity
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		days, err := strconv.Atoi(get(rec, "Duration"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", line, models.ErrInvalidDuration, get(rec, "Duration"))
		}
		a := models.Activity{
			ID:           models.ActivityID(get(rec, "ID")),
			SubjectName:  get(rec, "Crop"),
			FieldName:    get(rec, "Field"),
			Season:       get(rec, "Season"),
			Kind:         models.ActivityKind(get(rec, "Activity")),
			StartDate:    get(rec, "Start Date"),
			DurationDays: days,
		}
		if err := prepare(&a); err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", line, a.SubjectName, err)
		}
		acts = append(acts, a)
	}
	return acts, nil
}

// prepare gives an imported activity an id and its derived end date, then
// validates it.
func prepare(a *models.Activity) error {
	if a.ID == "" {
		a.ID = models.NewActivityID()
	}
	if err := a.RecomputeEnd(); err != nil {
		return err
	}
	return a.Validate()
}
