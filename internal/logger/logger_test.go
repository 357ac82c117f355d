package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(Close)

	if want := filepath.Join(dir, "logs", "fieldplan.log"); Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		logged  []string
		dropped []string
	}{
		{
			name:    "default warn",
			logged:  []string{"drag reverted"},
			dropped: []string{"window changed", "activity rescheduled"},
		},
		{
			name:    "info",
			cfg:     Config{Level: "info"},
			logged:  []string{"drag reverted", "window changed"},
			dropped: []string{"activity rescheduled"},
		},
		{
			name:   "debug flag wins over level",
			cfg:    Config{Level: "error", Debug: true, Stderr: &bytes.Buffer{}},
			logged: []string{"drag reverted", "window changed", "activity rescheduled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Dir = t.TempDir()
			if err := Init(cfg); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			t.Cleanup(Close)

			Debug("activity rescheduled", "id", "a-1")
			Info("window changed", "month", "2025-12")
			Warn("drag reverted", "column", 40)

			got := readLog(t)
			for _, msg := range tt.logged {
				if !strings.Contains(got, msg) {
					t.Errorf("log is missing %q:\n%s", msg, got)
				}
			}
			for _, msg := range tt.dropped {
				if strings.Contains(got, msg) {
					t.Errorf("log contains %q below the threshold", msg)
				}
			}
		})
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{Dir: t.TempDir(), Level: "loud"}); err == nil {
		t.Error("Init() with an unknown level succeeded")
	}
}

func TestDebugMirrorsToStderr(t *testing.T) {
	var stderr bytes.Buffer
	if err := Init(Config{Dir: t.TempDir(), Debug: true, Stderr: &stderr}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(Close)

	Error("save failed", "error", "disk full")
	if !strings.Contains(stderr.String(), "save failed") {
		t.Errorf("stderr = %q, want the error line", stderr.String())
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Close()

	if Path() != "" {
		t.Errorf("Path() = %q after Close, want empty", Path())
	}
	// Dropped, not a panic.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
