package backups

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/fieldplan/internal/backup"
	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/scheduler"
	"github.com/julianstephens/fieldplan/internal/storage"
	"github.com/julianstephens/fieldplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{
		Store:     store,
		Scheduler: scheduler.New(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), constants.DefaultColumnWidth),
	}, store
}

func liveCount(t *testing.T, store storage.Provider) int {
	t.Helper()
	acts, err := store.GetAllActivities()
	if err != nil {
		t.Fatalf("GetAllActivities() error = %v", err)
	}
	return len(acts)
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, store := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	backups, err := backup.NewManager(store.GetConfigPath()).ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("got %d backups, want 1", len(backups))
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, store := setupTestDB(t)
	mgr := backup.NewManager(store.GetConfigPath())

	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	a, err := models.NewActivity("Maize", "Harvest", "2025-12-01", 3)
	if err != nil {
		t.Fatalf("NewActivity() error = %v", err)
	}
	if err := store.AddActivity(a); err != nil {
		t.Fatalf("AddActivity() error = %v", err)
	}

	cancel := &BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("n\n")}
	if err := cancel.Run(ctx); err != nil {
		t.Fatalf("cancelled restore failed: %v", err)
	}
	if liveCount(t, store) != 1 {
		t.Fatal("cancelled restore changed the database")
	}

	restore := &BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("y\n")}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load() after restore error = %v", err)
	}
	if n := liveCount(t, store); n != 0 {
		t.Errorf("got %d activities after restore, want 0", n)
	}

	// The pre-restore snapshot holds the activity.
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("got %d backups after restore, want 2", len(backups))
	}
}

func TestBackupRestore_NotFound(t *testing.T) {
	ctx, _ := setupTestDB(t)
	cmd := &BackupRestoreCmd{BackupFile: "fieldplan-20250101-000000.db", Yes: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "plan.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	ctx := &cli.Context{Store: store}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected backups to be rejected for the JSON store")
	}
}
