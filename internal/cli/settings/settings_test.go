package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store}
}

func ptr[T any](v T) *T { return &v }

func TestSettingsCmd_List(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("settings --list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &SettingsCmd{
		ColumnWidth:  ptr(6),
		UpcomingDays: ptr(30),
		Timezone:     ptr("Africa/Nairobi"),
		DefaultKind:  ptr("Harvest"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	got, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	want := models.Settings{ColumnWidth: 6, UpcomingDays: 30, Timezone: "Africa/Nairobi", DefaultKind: "Harvest"}
	if got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}

func TestSettingsCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"column width too small", SettingsCmd{ColumnWidth: ptr(1)}},
		{"column width too large", SettingsCmd{ColumnWidth: ptr(40)}},
		{"zero upcoming days", SettingsCmd{UpcomingDays: ptr(0)}},
		{"unknown timezone", SettingsCmd{Timezone: ptr("Mars/Olympus")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Fatal("expected error")
			}
			got, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings() error = %v", err)
			}
			if got != models.DefaultSettings() {
				t.Errorf("settings changed to %+v", got)
			}
		})
	}
}
