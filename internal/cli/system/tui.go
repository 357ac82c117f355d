package system

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/instance"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/storage/postgres"
	"github.com/julianstephens/fieldplan/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadScheduler(); err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	if !postgres.IsConnString(ctx.Store.GetConfigPath()) {
		lock, err := instance.Acquire(filepath.Dir(ctx.Store.GetConfigPath()))
		if err != nil {
			if !errors.Is(err, instance.ErrAlreadyRunning) {
				return err
			}
			return fmt.Errorf("%w; close it first so edits are not overwritten", err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("Failed to release lock", "error", err)
			}
		}()
	}
	if err := checkOtherInstances(ctx); err != nil {
		logger.Warn("Starting alongside other processes", "detail", err)
	}

	p := tea.NewProgram(
		tui.NewModel(ctx.Store, ctx.Scheduler, today),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}
