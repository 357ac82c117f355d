package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/scheduler"
	"github.com/julianstephens/fieldplan/internal/tui/components/settings"
	"github.com/julianstephens/fieldplan/internal/utils"
)

var tabOrder = []constants.SessionState{constants.StateChart, constants.StateUpcoming, constants.StateSettings}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.upcomingModel.SetSize(msg.Width-4, msg.Height-6)
		m.settingsModel.SetSize(msg.Width, msg.Height-4)
		return m, nil
	}

	switch m.state {
	case constants.StateEditing:
		return m, m.updateActivityForm(msg)
	case constants.StateEditSettings:
		return m, m.updateSettingsForm(msg)
	case constants.StateConfirmDelete:
		m.updateConfirmDelete(msg)
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if m.state == constants.StateChart {
			m.handleMouse(msg)
		}
		return m, nil

	case settings.EditSettingsMsg:
		m.settingsForm = newSettingsFormModel(m.settings)
		m.form = NewSettingsForm(m.settingsForm)
		m.formError = ""
		m.previousState = m.state
		m.state = constants.StateEditSettings
		return m, m.form.Init()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.cycleTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.cycleTab(-1)
			return m, nil
		}

		switch m.state {
		case constants.StateChart:
			return m, m.handleChartKeys(msg)
		case constants.StateUpcoming:
			var cmd tea.Cmd
			m.upcomingModel, cmd = m.upcomingModel.Update(msg)
			return m, cmd
		case constants.StateSettings:
			var cmd tea.Cmd
			m.settingsModel, cmd = m.settingsModel.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) cycleTab(delta int) {
	for i, s := range tabOrder {
		if s == m.state {
			n := len(tabOrder)
			m.state = tabOrder[((i+delta)%n+n)%n]
			return
		}
	}
}

func (m *Model) handleChartKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.chart.SelectNext(-1)
	case key.Matches(msg, m.keys.Down):
		m.chart.SelectNext(1)
	case key.Matches(msg, m.keys.Earlier):
		m.nudge(-1)
	case key.Matches(msg, m.keys.Later):
		m.nudge(1)
	case key.Matches(msg, m.keys.PrevMonth):
		m.scheduler.PrevMonth()
		m.status = ""
		m.refresh()
	case key.Matches(msg, m.keys.NextMonth):
		m.scheduler.NextMonth()
		m.status = ""
		m.refresh()
	case key.Matches(msg, m.keys.Today):
		m.scheduler.JumpTo(m.today)
		m.refresh()
	case key.Matches(msg, m.keys.Add):
		return m.openActivityForm("")
	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.chart.Selected(); ok {
			return m.openActivityForm(id)
		}
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.chart.Selected(); ok {
			m.deleteID = id
			m.state = constants.StateConfirmDelete
		}
	}
	return nil
}

func (m *Model) nudge(days int) {
	id, ok := m.chart.Selected()
	if !ok {
		return
	}
	move, err := m.scheduler.Nudge(id, days)
	if errors.Is(err, scheduler.ErrDragInProgress) {
		return
	}
	m.persist(move, err)
	m.refresh()
}

// handleMouse relays left-button drags on the chart into the scheduler's
// drag machine. The scheduler's column width equals the chart's cells per
// day, so terminal columns serve as pointer units.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := msg.X-chartLeft, msg.Y-chartTop

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			id, ok := m.chart.HitTest(x, y)
			if !ok {
				return
			}
			m.chart.Select(id)
			if _, err := m.scheduler.PointerDown(id, float64(x)); err != nil {
				m.status = fmt.Sprintf("Cannot drag: %v", err)
			}
		case tea.MouseButtonWheelUp:
			m.chart.SelectNext(-1)
		case tea.MouseButtonWheelDown:
			m.chart.SelectNext(1)
		}
	case tea.MouseActionMotion:
		if m.scheduler.Drag().Phase != scheduler.DragDragging {
			return
		}
		m.scheduler.PointerMove(float64(x))
	case tea.MouseActionRelease:
		if m.scheduler.Drag().Phase != scheduler.DragDragging {
			return
		}
		m.persist(m.scheduler.PointerUp(float64(x)))
	}
	m.refresh()
}

// openActivityForm shows the add form when id is empty and the edit form otherwise.
func (m *Model) openActivityForm(id models.ActivityID) tea.Cmd {
	if id == "" {
		start := m.today
		if !m.scheduler.Window().Contains(start) {
			start = m.scheduler.Window().First()
		}
		m.activityForm = &ActivityFormModel{
			Kind:     m.settings.DefaultKind,
			Start:    utils.DateKey(start),
			Duration: "1",
		}
	} else {
		a, err := m.scheduler.Get(id)
		if err != nil {
			m.status = err.Error()
			return nil
		}
		m.activityForm = newActivityFormModel(a)
	}
	m.editingID = id
	m.formError = ""
	m.form = NewActivityForm(m.activityForm)
	m.state = constants.StateEditing
	return m.form.Init()
}

func (m *Model) updateActivityForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateChart
		return nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveActivityForm(); err != nil {
			// Keep the user in the form to correct the value
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}
		m.formError = ""
		m.state = constants.StateChart
	case huh.StateAborted:
		m.state = constants.StateChart
	}
	return tea.Batch(cmds...)
}

func (m *Model) saveActivityForm() error {
	base := models.Activity{ID: models.NewActivityID()}
	if m.editingID != "" {
		existing, err := m.scheduler.Get(m.editingID)
		if err != nil {
			return err
		}
		base = existing
	}

	a, err := m.activityForm.Apply(base)
	if err != nil {
		return err
	}

	if m.editingID == "" {
		if err := m.scheduler.Add(a); err != nil {
			return err
		}
		if err := m.store.AddActivity(a); err != nil {
			_ = m.scheduler.Delete(a.ID)
			return fmt.Errorf("failed to add activity: %w", err)
		}
		m.status = fmt.Sprintf("Added %s %s", a.SubjectName, a.Kind)
	} else {
		if err := m.store.UpdateActivity(a); err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}
		if err := m.scheduler.Update(a); err != nil {
			return err
		}
		m.status = fmt.Sprintf("Updated %s %s", a.SubjectName, a.Kind)
	}

	// Show the month the activity starts in.
	if err := m.scheduler.JumpToActivity(a.ID); err != nil {
		logger.Warn("Failed to jump to activity", "id", a.ID, "error", err)
	}
	m.refresh()
	m.chart.Select(a.ID)
	return nil
}

func (m *Model) updateSettingsForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		updated, err := m.settingsForm.Apply(m.settings)
		if err == nil {
			err = m.store.SaveSettings(updated)
		}
		if err != nil {
			m.formError = fmt.Sprintf("Failed to save settings: %v", err)
			m.form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}
		m.applySettings(updated)
		m.formError = ""
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return tea.Batch(cmds...)
}

func (m *Model) applySettings(s models.Settings) {
	m.settings = s
	if today, err := utils.TodayInTimezone(s.Timezone); err == nil {
		m.today = today
	}
	m.settingsModel.SetSettings(s)
	m.scheduler.SetColumnWidth(float64(s.ColumnWidth))
	m.chart.SetOptions(chartOptions(s, m.today))
	m.refresh()
}

func (m *Model) updateConfirmDelete(msg tea.Msg) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch msgKey.String() {
	case "y", "Y":
		if m.deleteID != "" {
			a, _ := m.scheduler.Get(m.deleteID)
			if err := m.store.DeleteActivity(m.deleteID); err != nil {
				m.status = fmt.Sprintf("Failed to delete: %v", err)
			} else {
				_ = m.scheduler.Delete(m.deleteID)
				m.status = fmt.Sprintf("Deleted %s %s (restore with '%s activity restore')", a.SubjectName, a.Kind, constants.AppName)
				m.refresh()
			}
			m.deleteID = ""
		}
		m.state = constants.StateChart
	case "n", "N", "esc":
		m.deleteID = ""
		m.state = constants.StateChart
	}
}
