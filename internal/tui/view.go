package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/fieldplan/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateChart:
		content = chartStyle.Render(m.chart.View())
	case constants.StateUpcoming:
		content = docStyle.Render(m.upcomingModel.View())
	case constants.StateSettings:
		content = m.settingsModel.View()
	case constants.StateEditing, constants.StateEditSettings:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		"",
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, s := range tabOrder {
		title := tabTitle(s)
		if m.state == s {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func tabTitle(s constants.SessionState) string {
	switch s {
	case constants.StateChart:
		return "Chart"
	case constants.StateUpcoming:
		return "Upcoming"
	case constants.StateSettings:
		return "Settings"
	}
	return ""
}

// viewStatus is always exactly one line so the chart origin stays fixed.
func (m Model) viewStatus() string {
	line := m.status
	if m.validationWarning != "" {
		if line != "" {
			line += "  "
		}
		line = warningStyle.Render(m.validationWarning) + " " + statusStyle.Render(line)
	} else {
		line = statusStyle.Render(line)
	}
	if line == "" {
		return " "
	}
	return lipgloss.NewStyle().MaxHeight(1).Render(line)
}

func (m Model) viewForm() string {
	title := "Add activity"
	switch {
	case m.state == constants.StateEditSettings:
		title = "Edit settings"
	case m.editingID != "":
		title = "Edit activity"
	}

	parts := []string{lipgloss.NewStyle().Bold(true).Render(title), "", m.form.View()}
	if m.formError != "" {
		parts = append(parts, "", dangerStyle.Render(m.formError))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewConfirmDelete() string {
	prompt := "Are you sure you want to delete this activity?"
	if a, err := m.scheduler.Get(m.deleteID); err == nil {
		prompt = fmt.Sprintf("Delete %s %s (%s to %s)?", a.SubjectName, a.Kind, a.StartDate, a.EndDate)
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(prompt),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
