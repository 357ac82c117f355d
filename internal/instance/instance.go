// Package instance detects other running fieldplan processes so that two
// writers do not edit the same store at once.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/fieldplan/internal/constants"
)

var (
	listProcessesFunc = ps.Processes
	findProcessFunc   = ps.FindProcess
	getpidFunc        = os.Getpid
)

var ErrAlreadyRunning = errors.New("another fieldplan session is running")

const lockFileName = constants.AppName + ".lock"

// Process is a running fieldplan process other than this one.
type Process struct {
	PID        int
	Executable string
}

// Others lists fieldplan processes other than the current one.
func Others() ([]Process, error) {
	procs, err := listProcessesFunc()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	self := getpidFunc()

	var out []Process
	for _, p := range procs {
		if p.Pid() == self || !isFieldplan(p.Executable()) {
			continue
		}
		out = append(out, Process{PID: p.Pid(), Executable: p.Executable()})
	}
	return out, nil
}

func isFieldplan(executable string) bool {
	name := strings.TrimSuffix(filepath.Base(executable), ".exe")
	return name == constants.AppName
}

// Lock marks an interactive session as active for a config directory.
type Lock struct {
	path string
}

// Acquire writes a lockfile holding this process's PID into dir. It fails
// with ErrAlreadyRunning when the lockfile names a live fieldplan process; a
// stale lockfile is replaced.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, lockFileName)

	if pid, ok := readPID(path); ok && pid != getpidFunc() {
		if p, err := findProcessFunc(pid); err == nil && p != nil && isFieldplan(p.Executable()) {
			return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(getpidFunc())), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
