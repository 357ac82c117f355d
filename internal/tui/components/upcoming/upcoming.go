package upcoming

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/tui/components/gantt"
	"github.com/julianstephens/fieldplan/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	cropStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(16)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport   viewport.Model
	activities []models.Activity
	today      time.Time
	days       int
	width      int
	height     int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetActivities replaces the list. acts is expected in start order.
func (m *Model) SetActivities(acts []models.Activity, today time.Time, days int) {
	m.activities = acts
	m.today = utils.Civil(today)
	m.days = days
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(Content(m.activities, m.today, m.days))
}

// Content formats the upcoming list; the CLI prints the same text.
func Content(acts []models.Activity, today time.Time, days int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Next %d days", days)))
	b.WriteString("\n\n")

	if len(acts) == 0 {
		b.WriteString(statusStyle.Render(fmt.Sprintf("No activities scheduled for the next %d days.", days)))
		return b.String()
	}

	for _, a := range acts {
		start, err := a.Start()
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%s %s %s (%d days) %s\n",
			dateStyle.Render(start.Format("Mon Jan 2")),
			cropStyle.Render(a.SubjectName),
			lipgloss.NewStyle().Foreground(gantt.KindColor(a.Kind)).Render(string(a.Kind)),
			a.DurationDays,
			statusStyle.Render(Status(a, today)),
		)
	}
	return b.String()
}

// Status describes where an activity stands relative to today.
func Status(a models.Activity, today time.Time) string {
	start, err := a.Start()
	if err != nil {
		return ""
	}
	end, err := a.End()
	if err != nil {
		return ""
	}
	today = utils.Civil(today)
	switch {
	case start.After(today):
		n := utils.DaysBetween(today, start)
		if n == 1 {
			return "starts tomorrow"
		}
		return fmt.Sprintf("starts in %d days", n)
	case start.Equal(today):
		return "starts today"
	case end.Equal(today):
		return "ends today"
	default:
		return fmt.Sprintf("ongoing, ends %s", end.Format("Jan 2"))
	}
}
