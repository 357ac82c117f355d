package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/fieldplan/internal/backup"
	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/scheduler"
	"github.com/julianstephens/fieldplan/internal/storage"
	"github.com/julianstephens/fieldplan/internal/storage/sqlite"
	"github.com/julianstephens/fieldplan/internal/utils"
)

var ErrAmbiguousActivity = errors.New("activity reference matches more than one activity")

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only SQLite stores are backed up.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Settings returns the stored settings, or the defaults if they cannot be read.
func (c *Context) Settings() models.Settings {
	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
		return models.DefaultSettings()
	}
	return settings
}

// Today returns the current date in the configured timezone.
func (c *Context) Today() (time.Time, error) {
	return utils.TodayInTimezone(c.Settings().Timezone)
}

// LoadScheduler fills the scheduler with the live activities and applies
// the configured column width. The visible window opens on today's month.
func (c *Context) LoadScheduler() error {
	settings := c.Settings()
	acts, err := c.Store.GetAllActivities()
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}
	if err := c.Scheduler.Load(acts); err != nil {
		return fmt.Errorf("%w (run '%s validate --fix')", err, constants.AppName)
	}
	c.Scheduler.SetColumnWidth(float64(settings.ColumnWidth))
	if today, err := utils.TodayInTimezone(settings.Timezone); err == nil {
		c.Scheduler.JumpTo(today)
	}
	return nil
}

// FindActivity resolves an ID or unique ID prefix against the store.
func (c *Context) FindActivity(ref string, includeDeleted bool) (models.Activity, error) {
	var (
		acts []models.Activity
		err  error
	)
	if includeDeleted {
		acts, err = c.Store.GetAllActivitiesIncludingDeleted()
	} else {
		acts, err = c.Store.GetAllActivities()
	}
	if err != nil {
		return models.Activity{}, fmt.Errorf("failed to load activities: %w", err)
	}
	return MatchActivity(acts, ref)
}

// MatchActivity returns the activity whose ID equals ref, or the single
// activity whose ID starts with ref.
func MatchActivity(acts []models.Activity, ref string) (models.Activity, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Activity{}, models.ErrMissingID
	}

	var matches []models.Activity
	for _, a := range acts {
		if string(a.ID) == ref {
			return a, nil
		}
		if strings.HasPrefix(string(a.ID), ref) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return models.Activity{}, fmt.Errorf("%w: %s", models.ErrActivityNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Activity{}, fmt.Errorf("%w: %s (%d matches)", ErrAmbiguousActivity, ref, len(matches))
	}
}

// ParseDateArg accepts YYYY-MM-DD, "today" or "tomorrow".
func ParseDateArg(s string, today time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return utils.Civil(today), nil
	case "tomorrow":
		return utils.AddDays(utils.Civil(today), 1), nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD, 'today' or 'tomorrow')", models.ErrInvalidDate, s)
	}
	return d, nil
}

// ShortID trims an ID for table output.
func ShortID(id models.ActivityID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
