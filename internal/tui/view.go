package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := ""
	switch {
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(m.schedule.View()),
		m.viewStatics(),
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	today := m.planner.TodayIndex()
	tabs := make([]string, 0, constants.DaysPerWeek)
	for day := 0; day < constants.DaysPerWeek; day++ {
		title := utils.ShortDayName(day)
		switch {
		case day == m.day:
			tabs = append(tabs, activeTabStyle.Render(title))
		case day == today:
			tabs = append(tabs, todayTabStyle.Render(title))
		default:
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// viewStatics lists the day's static tasks with the selection cursor.
func (m Model) viewStatics() string {
	d := m.planner.Days[m.day]
	if len(d.StaticTasks) == 0 {
		return "  No static tasks on " + utils.DayName(m.day)
	}
	var b strings.Builder
	b.WriteString("  Static tasks:\n")
	for i, st := range d.StaticTasks {
		line := fmt.Sprintf("%s  %s", st.Time, st.Task.Name)
		if d.IsStaticDone(st.Task.ID) {
			line = doneStyle.Render(line)
		}
		prefix := "    "
		if i == m.cursor {
			prefix = selectedStyle.Render("  > ")
		}
		b.WriteString(prefix + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
