package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/scheduler"
	"github.com/julianstephens/fieldplan/internal/storage"
	"github.com/julianstephens/fieldplan/internal/tui/components/gantt"
	"github.com/julianstephens/fieldplan/internal/tui/components/settings"
	"github.com/julianstephens/fieldplan/internal/tui/components/upcoming"
	"github.com/julianstephens/fieldplan/internal/utils"
	"github.com/julianstephens/fieldplan/internal/validation"
)

// The chart is drawn below the tab bar and the status line, one cell in
// from the left edge. Mouse coordinates are shifted by this origin before
// hit testing.
const (
	chartLeft = 1
	chartTop  = 2
)

type Model struct {
	store             storage.Provider
	scheduler         *scheduler.Scheduler
	settings          models.Settings
	today             time.Time
	state             constants.SessionState
	previousState     constants.SessionState
	keys              KeyMap
	help              help.Model
	chart             gantt.Model
	upcomingModel     upcoming.Model
	settingsModel     settings.Model
	form              *huh.Form
	activityForm      *ActivityFormModel
	settingsForm      *SettingsFormModel
	editingID         models.ActivityID // empty while adding
	deleteID          models.ActivityID
	status            string
	formError         string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

// NewModel builds the TUI around a scheduler that already holds the live
// activities.
func NewModel(store storage.Provider, sched *scheduler.Scheduler, today time.Time) Model {
	current, err := store.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
		current = models.DefaultSettings()
	}

	m := Model{
		store:         store,
		scheduler:     sched,
		settings:      current,
		today:         utils.Civil(today),
		state:         constants.StateChart,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		chart:         gantt.New(chartOptions(current, today)),
		upcomingModel: upcoming.New(0, 0),
		settingsModel: settings.New(current, store.GetConfigPath(), 0, 0),
	}
	m.scheduler.SetColumnWidth(float64(current.ColumnWidth))
	m.refresh()
	m.chart.SelectNext(1)
	return m
}

func chartOptions(s models.Settings, today time.Time) gantt.Options {
	return gantt.Options{
		ColumnWidth: s.ColumnWidth,
		LabelWidth:  constants.RowLabelWidth,
		Today:       today,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == constants.StateChart {
		keys = append(keys, m.keys.Earlier, m.keys.Later, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Add)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	if m.state != constants.StateChart {
		return [][]key.Binding{global}
	}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Today}
	actions := []key.Binding{m.keys.Earlier, m.keys.Later, m.keys.Add, m.keys.Edit, m.keys.Delete}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh redraws every view from the scheduler.
func (m *Model) refresh() {
	m.chart.SetLayout(m.scheduler.Layout(), m.scheduler.Drag())
	days := m.settings.UpcomingDays
	m.upcomingModel.SetActivities(m.scheduler.Upcoming(m.today, days), m.today, days)
	m.updateValidationStatus()
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := validation.Validate(m.scheduler.Activities())
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

// persist writes a moved activity back to the store.
func (m *Model) persist(move scheduler.Move, err error) {
	switch {
	case err != nil:
		m.status = fmt.Sprintf("Move failed: %v", err)
	case move.Outcome.Reverted:
		m.status = "Dropped outside the month, move cancelled"
	case move.Changed:
		if err := m.store.UpdateActivity(move.Activity); err != nil {
			logger.Error("Failed to save moved activity", "id", move.Activity.ID, "error", err)
			m.status = fmt.Sprintf("Failed to save: %v", err)
			return
		}
		a := move.Activity
		m.status = fmt.Sprintf("Moved %s %s to %s, %s", a.SubjectName, a.Kind, a.StartDate, a.EndDate)
	}
}
