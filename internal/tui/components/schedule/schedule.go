package schedule

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lunite/internal/models"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	staticStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	dynamicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// Model shows one day's placed schedule in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	Title    string
	Entries  []models.Entry
	Diags    []models.Diagnostic
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
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
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetSchedule(title string, entries []models.Entry, diags []models.Diagnostic) {
	m.Title = title
	m.Entries = entries
	m.Diags = diags
	m.Render()
	m.viewport.GotoTop()
}

// Content is the rendered text placed in the viewport.
func (m Model) Content() string {
	var b strings.Builder
	b.WriteString(m.Title + "\n\n")
	if len(m.Entries) == 0 {
		b.WriteString(freeStyle.Render("Nothing to schedule between wake and bed time.") + "\n")
	}
	for _, e := range m.Entries {
		when := timeStyle.Render(e.Time.String())
		switch e.Kind {
		case models.EntryFree:
			b.WriteString(when + freeStyle.Render(fmt.Sprintf("free (%d min)", e.Time.DurationMin())))
		case models.EntryStatic:
			b.WriteString(when + staticStyle.Render(e.Label()))
		default:
			b.WriteString(when + dynamicStyle.Render(e.Label()))
		}
		b.WriteString("\n")
	}
	if len(m.Diags) > 0 {
		b.WriteString("\n")
		for _, d := range m.Diags {
			b.WriteString(warningStyle.Render("⚠ "+d.String()) + "\n")
		}
	}
	return b.String()
}

func (m *Model) Render() {
	m.viewport.SetContent(m.Content())
}
