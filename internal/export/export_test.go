package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/fieldplan/internal/models"
)

func sample(t *testing.T) []models.Activity {
	t.Helper()
	maize, err := models.NewActivity("Maize", "Harvest", "2025-12-01", 3)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}
	maize.FieldName = "North, lower"
	maize.Season = "Short rains"

	beans, err := models.NewActivity("Beans", "Nursery", "2025-11-28", 10)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}

	gone, err := models.NewActivity("Kale", "Weeding", "2025-12-05", 1)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}
	deletedAt := "2025-12-06T00:00:00Z"
	gone.DeletedAt = &deletedAt

	return []models.Activity{maize, beans, gone}
}

func TestWriteCSV(t *testing.T) {
	acts := sample(t)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, acts); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv back: %v", err)
	}
	want := [][]string{
		CSVHeader,
		{"Maize", "North, lower", "Short rains", "Harvest", "2025-12-01", "3", "2025-12-03", string(acts[0].ID)},
		{"Beans", "", "", "Nursery", "2025-11-28", "10", "2025-12-07", string(acts[1].ID)},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got, want := buf.String(), "Crop,Field,Season,Activity,Start Date,Duration,End Date,ID\n"; got != want {
		t.Errorf("WriteCSV(nil) = %q, want %q", got, want)
	}
}

func TestYAMLRoundTripKeepsLiveActivities(t *testing.T) {
	acts := sample(t)

	var buf bytes.Buffer
	if err := WriteYAML(&buf, acts); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	if strings.Contains(buf.String(), "Kale") {
		t.Errorf("deleted activity exported:\n%s", buf.String())
	}

	got, err := ReadYAML(&buf)
	if err != nil {
		t.Fatalf("ReadYAML() error = %v", err)
	}
	if diff := cmp.Diff(acts[:2], got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadYAML(t *testing.T) {
	t.Run("assigns ids and derives end dates", func(t *testing.T) {
		doc := `
activities:
  - crop: Tomatoes
    activity: Transplanting
    start: 2025-12-30
    duration: 5
    end: 2025-12-31
`
		acts, err := ReadYAML(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("ReadYAML() error = %v", err)
		}
		if len(acts) != 1 {
			t.Fatalf("got %d activities, want 1", len(acts))
		}
		if acts[0].ID == "" {
			t.Error("imported activity has no id")
		}
		if acts[0].EndDate != "2026-01-03" {
			t.Errorf("EndDate = %s, want 2026-01-03", acts[0].EndDate)
		}
	})

	t.Run("rejects zero duration", func(t *testing.T) {
		doc := "activities:\n  - crop: Maize\n    activity: Harvest\n    start: 2025-12-01\n    duration: 0\n"
		_, err := ReadYAML(strings.NewReader(doc))
		if !errors.Is(err, models.ErrInvalidDuration) {
			t.Errorf("ReadYAML() error = %v, want ErrInvalidDuration", err)
		}
	})

	t.Run("rejects bad dates", func(t *testing.T) {
		doc := "activities:\n  - crop: Maize\n    activity: Harvest\n    start: 2025-13-01\n    duration: 2\n"
		_, err := ReadYAML(strings.NewReader(doc))
		if !errors.Is(err, models.ErrInvalidDate) {
			t.Errorf("ReadYAML() error = %v, want ErrInvalidDate", err)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		doc := "activities:\n  - crop: Maize\n    colour: red\n"
		if _, err := ReadYAML(strings.NewReader(doc)); err == nil {
			t.Error("ReadYAML() expected error for unknown field")
		}
	})

	t.Run("empty document", func(t *testing.T) {
		acts, err := ReadYAML(strings.NewReader(""))
		if err != nil || len(acts) != 0 {
			t.Errorf("ReadYAML(\"\") = %v, %v", acts, err)
		}
	})
}

func TestCSVRoundTrip(t *testing.T) {
	acts := sample(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, acts); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if diff := cmp.Diff(acts[:2], got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("reordered columns without id or end date", func(t *testing.T) {
		doc := "Duration,Start Date,Activity,Crop\n5,2025-12-30,Transplanting,Tomatoes\n"
		acts, err := ReadCSV(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		if len(acts) != 1 {
			t.Fatalf("got %d activities, want 1", len(acts))
		}
		a := acts[0]
		if a.ID == "" {
			t.Error("imported activity has no id")
		}
		if a.SubjectName != "Tomatoes" || a.Kind != "Transplanting" || a.EndDate != "2026-01-03" {
			t.Errorf("ReadCSV() = %+v", a)
		}
	})

	t.Run("stale end date is recomputed", func(t *testing.T) {
		doc := "Crop,Activity,Start Date,Duration,End Date\nMaize,Harvest,2025-12-01,3,2025-12-09\n"
		acts, err := ReadCSV(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		if acts[0].EndDate != "2025-12-03" {
			t.Errorf("EndDate = %s, want 2025-12-03", acts[0].EndDate)
		}
	})

	t.Run("rejects a bad duration", func(t *testing.T) {
		doc := "Crop,Activity,Start Date,Duration\nMaize,Harvest,2025-12-01,three\n"
		_, err := ReadCSV(strings.NewReader(doc))
		if !errors.Is(err, models.ErrInvalidDuration) {
			t.Errorf("ReadCSV() error = %v, want ErrInvalidDuration", err)
		}
		if err != nil && !strings.Contains(err.Error(), "line 2") {
			t.Errorf("ReadCSV() error = %v, want the line number", err)
		}
	})

	t.Run("rejects bad dates", func(t *testing.T) {
		doc := "Crop,Activity,Start Date,Duration\nMaize,Harvest,2025-13-01,2\n"
		_, err := ReadCSV(strings.NewReader(doc))
		if !errors.Is(err, models.ErrInvalidDate) {
			t.Errorf("ReadCSV() error = %v, want ErrInvalidDate", err)
		}
	})

	t.Run("missing required column", func(t *testing.T) {
		doc := "Crop,Activity,Duration\nMaize,Harvest,2\n"
		if _, err := ReadCSV(strings.NewReader(doc)); err == nil || !strings.Contains(err.Error(), "Start Date") {
			t.Errorf("ReadCSV() error = %v, want one naming Start Date", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		acts, err := ReadCSV(strings.NewReader(""))
		if err != nil || len(acts) != 0 {
			t.Errorf("ReadCSV(\"\") = %v, %v", acts, err)
		}
	})
}
