package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/fieldplan/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	settings   models.Settings
	configPath string
	width      int
	height     int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(settings models.Settings, configPath string, width, height int) Model {
	return Model{
		settings:   settings,
		configPath: configPath,
		width:      width,
		height:     height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		}
	}
	return m, nil
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var sections []string

	chartTitle := titleStyle.Render("Chart")
	chartContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Column Width (cells):", fmt.Sprintf("%d", m.settings.ColumnWidth)),
		row("Default Activity:", m.settings.DefaultKind),
	)
	sections = append(sections, sectionStyle.Render(chartTitle+"\n"+chartContent))

	upcomingTitle := titleStyle.Render("Upcoming")
	upcomingContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Look Ahead (days):", fmt.Sprintf("%d", m.settings.UpcomingDays)),
		row("Timezone:", m.settings.Timezone),
	)
	sections = append(sections, sectionStyle.Render(upcomingTitle+"\n"+upcomingContent))

	storageTitle := titleStyle.Render("Storage")
	sections = append(sections, sectionStyle.Render(storageTitle+"\n"+row("Location:", m.configPath)))

	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(2).
		Render("Press 'e' to edit settings")

	sections = append(sections, helpText)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(content),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
