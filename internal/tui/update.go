package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/utils"
)

// chromeHeight is the rows taken by tabs, the static list header, status and help.
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := msg.Height - chromeHeight - len(m.planner.Days[m.day].StaticTasks)
		if h < 3 {
			h = 3
		}
		m.schedule.SetSize(msg.Width-4, h)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.selectDay((m.day + 1) % constants.DaysPerWeek)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.selectDay((m.day + constants.DaysPerWeek - 1) % constants.DaysPerWeek)
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.selectDay(m.planner.TodayIndex())
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.planner.Days[m.day].StaticTasks)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Done):
			m.completeSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.schedule, cmd = m.schedule.Update(msg)
	return m, cmd
}

func (m *Model) selectDay(day int) {
	m.day = day
	m.cursor = 0
	m.status = ""
	m.err = nil
	m.refresh()
}

// completeSelected logs a completion for the highlighted static task and saves.
func (m *Model) completeSelected() {
	d := &m.planner.Days[m.day]
	if m.cursor < 0 || m.cursor >= len(d.StaticTasks) {
		m.status = "No static task selected"
		return
	}
	task := d.StaticTasks[m.cursor]
	if d.IsStaticDone(task.Task.ID) {
		m.status = fmt.Sprintf("%q is already done", task.Task.Name)
		return
	}

	prevDone := len(d.StaticDone)
	if err := m.planner.CompleteStatic(m.day, m.cursor); err != nil {
		m.err = err
		return
	}
	if m.save != nil {
		if err := m.save(m.planner); err != nil {
			d.StaticDone = d.StaticDone[:prevDone]
			m.err = fmt.Errorf("failed to save: %w", err)
			logger.Error("tui save failed", "error", err)
			return
		}
	}
	logger.Info("static task completed", "id", task.Task.ID, "day", m.day, "source", "tui")
	m.err = nil
	m.status = fmt.Sprintf("✓ Completed %q on %s", task.Task.Name, utils.DayName(m.day))
	m.refresh()
}

func (m *Model) refresh() {
	title := utils.DayName(m.day)
	if date, err := m.planner.DateFor(m.day); err == nil {
		title += " " + date
	}
	entries, diags, err := m.planner.GetScheduleWithDynamics(m.day)
	if err != nil {
		m.err = err
		return
	}
	m.schedule.SetSchedule(title, entries, diags)
}
