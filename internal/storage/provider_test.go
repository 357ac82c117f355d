package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/storage/sqlite"
)

// providers returns a fresh, initialized instance of every file-backed store.
func providers(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	out := map[string]Provider{
		"sqlite": sqlite.NewStore(filepath.Join(dir, "fieldplan.db")),
		"json":   NewJSONStore(filepath.Join(dir, "fieldplan.json")),
	}
	for name, p := range out {
		if err := p.Init(); err != nil {
			t.Fatalf("%s: Init() error = %v", name, err)
		}
		t.Cleanup(func() { p.Close() })
	}
	return out
}

func mustActivity(t *testing.T, subject string, kind models.ActivityKind, start string, days int) models.Activity {
	t.Helper()
	a, err := models.NewActivity(subject, kind, start, days)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}
	return a
}

func activityIDs(acts []models.Activity) []models.ActivityID {
	var out []models.ActivityID
	for _, a := range acts {
		out = append(out, a.ID)
	}
	return out
}

func TestProviderDefaultSettings(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			got, err := p.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings() error = %v", err)
			}
			if diff := cmp.Diff(models.DefaultSettings(), got); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}

			got.ColumnWidth = 6
			got.Timezone = "UTC"
			if err := p.SaveSettings(got); err != nil {
				t.Fatalf("SaveSettings() error = %v", err)
			}
			again, _ := p.GetSettings()
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("saved settings mismatch (-want +got):\n%s", diff)
			}

			got.ColumnWidth = 0
			if err := p.SaveSettings(got); err == nil {
				t.Error("SaveSettings() accepted an invalid column width")
			}
		})
	}
}

func TestProviderActivityLifecycle(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			a := mustActivity(t, "Tomatoes", "Nursery", "2025-12-05", 10)
			a.FieldName = "North plot"
			a.Season = "Short rains"
			b := mustActivity(t, "Onions", "Sowing", "2025-12-01", 3)

			for _, act := range []models.Activity{a, b} {
				if err := p.AddActivity(act); err != nil {
					t.Fatalf("AddActivity() error = %v", err)
				}
			}

			got, err := p.GetActivity(a.ID)
			if err != nil {
				t.Fatalf("GetActivity() error = %v", err)
			}
			if diff := cmp.Diff(a, got); diff != "" {
				t.Errorf("activity mismatch (-want +got):\n%s", diff)
			}

			all, _ := p.GetAllActivities()
			if diff := cmp.Diff([]models.ActivityID{a.ID, b.ID}, activityIDs(all)); diff != "" {
				t.Errorf("insertion order mismatch (-want +got):\n%s", diff)
			}

			a.Reschedule(mustDate(t, "2025-12-20"))
			if err := p.UpdateActivity(a); err != nil {
				t.Fatalf("UpdateActivity() error = %v", err)
			}
			got, _ = p.GetActivity(a.ID)
			if got.StartDate != "2025-12-20" || got.EndDate != "2025-12-29" {
				t.Errorf("after update = %s..%s, want 2025-12-20..2025-12-29", got.StartDate, got.EndDate)
			}

			if err := p.DeleteActivity(a.ID); err != nil {
				t.Fatalf("DeleteActivity() error = %v", err)
			}
			if _, err := p.GetActivity(a.ID); !errors.Is(err, models.ErrActivityNotFound) {
				t.Errorf("GetActivity(deleted) error = %v, want %v", err, models.ErrActivityNotFound)
			}
			if err := p.DeleteActivity(a.ID); !errors.Is(err, models.ErrActivityNotFound) {
				t.Errorf("second DeleteActivity() error = %v, want %v", err, models.ErrActivityNotFound)
			}
			if err := p.UpdateActivity(a); !errors.Is(err, models.ErrActivityNotFound) {
				t.Errorf("UpdateActivity(deleted) error = %v, want %v", err, models.ErrActivityNotFound)
			}

			withDeleted, _ := p.GetAllActivitiesIncludingDeleted()
			if len(withDeleted) != 2 {
				t.Fatalf("GetAllActivitiesIncludingDeleted() = %d activities, want 2", len(withDeleted))
			}
			for _, act := range withDeleted {
				if act.ID == a.ID && !act.IsDeleted() {
					t.Error("deleted activity has no DeletedAt")
				}
			}

			if err := p.RestoreActivity(a.ID); err != nil {
				t.Fatalf("RestoreActivity() error = %v", err)
			}
			if err := p.RestoreActivity(a.ID); !errors.Is(err, models.ErrActivityNotFound) {
				t.Errorf("RestoreActivity(live) error = %v, want %v", err, models.ErrActivityNotFound)
			}
			if _, err := p.GetActivity(a.ID); err != nil {
				t.Errorf("GetActivity(restored) error = %v", err)
			}
		})
	}
}

func TestProviderRejectsInvalidActivity(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			a := mustActivity(t, "Beans", "Weeding", "2025-12-05", 2)
			a.EndDate = "2025-12-30"
			if err := p.AddActivity(a); !errors.Is(err, models.ErrStaleEndDate) {
				t.Errorf("AddActivity(stale) error = %v, want %v", err, models.ErrStaleEndDate)
			}
		})
	}
}

func TestProviderSaveActivitiesReplacesCollection(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			old := mustActivity(t, "Maize", "Harvest", "2025-12-05", 2)
			kept := mustActivity(t, "Beans", "Sowing", "2025-12-01", 4)
			if err := p.AddActivity(old); err != nil {
				t.Fatalf("AddActivity() error = %v", err)
			}
			if err := p.AddActivity(kept); err != nil {
				t.Fatalf("AddActivity() error = %v", err)
			}

			fresh := mustActivity(t, "Cabbage", "Transplanting", "2025-12-10", 1)
			kept.Season = "Long rains"
			if err := p.SaveActivities([]models.Activity{fresh, kept}); err != nil {
				t.Fatalf("SaveActivities() error = %v", err)
			}

			all, err := p.GetAllActivities()
			if err != nil {
				t.Fatalf("GetAllActivities() error = %v", err)
			}
			want := []models.Activity{fresh, kept}
			if diff := cmp.Diff(want, all, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("collection mismatch (-want +got):\n%s", diff)
			}
			if err := p.RestoreActivity(old.ID); err != nil {
				t.Errorf("replaced activity is not restorable: %v", err)
			}
		})
	}
}

func TestSQLiteDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldplan.db")
	a := mustActivity(t, "Kale", "Irrigation", "2026-01-02", 5)

	first := sqlite.NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := first.AddActivity(a); err != nil {
		t.Fatalf("AddActivity() error = %v", err)
	}
	first.Close()

	second := sqlite.NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer second.Close()

	got, err := second.GetActivity(a.ID)
	if err != nil {
		t.Fatalf("GetActivity() error = %v", err)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("activity mismatch (-want +got):\n%s", diff)
	}

	st, err := second.SchemaStatus()
	if err != nil {
		t.Fatalf("SchemaStatus() error = %v", err)
	}
	if !st.UpToDate() {
		t.Errorf("SchemaStatus() = %+v, want up to date", st)
	}
}

func TestLoadUninitialized(t *testing.T) {
	dir := t.TempDir()
	for name, p := range map[string]Provider{
		"sqlite": sqlite.NewStore(filepath.Join(dir, "missing.db")),
		"json":   NewJSONStore(filepath.Join(dir, "missing.json")),
	} {
		if err := p.Load(); err == nil {
			t.Errorf("%s: Load() of a missing store succeeded", name)
		}
	}
}
