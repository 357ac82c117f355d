package instance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcesses(t *testing.T, self int, procs ...*mockProcess) {
	t.Helper()
	origList, origFind, origPid := listProcessesFunc, findProcessFunc, getpidFunc
	t.Cleanup(func() {
		listProcessesFunc, findProcessFunc, getpidFunc = origList, origFind, origPid
	})

	getpidFunc = func() int { return self }
	listProcessesFunc = func() ([]ps.Process, error) {
		out := make([]ps.Process, len(procs))
		for i, p := range procs {
			out[i] = p
		}
		return out, nil
	}
	findProcessFunc = func(pid int) (ps.Process, error) {
		for _, p := range procs {
			if p.pid == pid {
				return p, nil
			}
		}
		return nil, nil
	}
}

func TestOthers(t *testing.T) {
	stubProcesses(t, 100,
		&mockProcess{pid: 100, executable: "fieldplan"},
		&mockProcess{pid: 200, executable: "fieldplan"},
		&mockProcess{pid: 300, executable: "fieldplan.exe"},
		&mockProcess{pid: 400, executable: "fieldplan-helper"},
		&mockProcess{pid: 500, executable: "bash"},
	)

	got, err := Others()
	if err != nil {
		t.Fatalf("Others() error = %v", err)
	}
	if len(got) != 2 || got[0].PID != 200 || got[1].PID != 300 {
		t.Errorf("Others() = %+v, want pids 200 and 300", got)
	}
}

func TestAcquire(t *testing.T) {
	t.Run("fresh directory", func(t *testing.T) {
		stubProcesses(t, 100)
		dir := t.TempDir()

		lock, err := Acquire(dir)
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		if pid, ok := readPID(filepath.Join(dir, lockFileName)); !ok || pid != 100 {
			t.Errorf("lockfile pid = %d, %v; want 100", pid, ok)
		}
		if err := lock.Release(); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, lockFileName)); !os.IsNotExist(err) {
			t.Error("lockfile still present after Release()")
		}
	})

	t.Run("live holder", func(t *testing.T) {
		stubProcesses(t, 100, &mockProcess{pid: 42, executable: "fieldplan"})
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, lockFileName), []byte("42"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := Acquire(dir); !errors.Is(err, ErrAlreadyRunning) {
			t.Errorf("Acquire() error = %v, want %v", err, ErrAlreadyRunning)
		}
	})

	t.Run("stale lockfile", func(t *testing.T) {
		stubProcesses(t, 100, &mockProcess{pid: 42, executable: "vim"})
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, lockFileName), []byte("42\n"), 0600); err != nil {
			t.Fatal(err)
		}

		lock, err := Acquire(dir)
		if err != nil {
			t.Fatalf("Acquire() over stale lock error = %v", err)
		}
		defer lock.Release()
		if pid, _ := readPID(filepath.Join(dir, lockFileName)); pid != 100 {
			t.Errorf("lockfile pid = %d, want 100", pid)
		}
	})
}

func TestReleaseNilLock(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("Release() on nil lock error = %v", err)
	}
}
