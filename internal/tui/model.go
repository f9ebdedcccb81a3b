package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lunite/internal/planner"
	"github.com/julianstephens/lunite/internal/tui/components/schedule"
)

// SaveFunc persists the planner after a change made in the TUI.
type SaveFunc func(*planner.Planner) error

type Model struct {
	planner  *planner.Planner
	save     SaveFunc
	day      int
	cursor   int
	keys     KeyMap
	help     help.Model
	schedule schedule.Model
	status   string
	err      error
	width    int
	height   int
	quitting bool
}

// NewModel opens on today's tab.
func NewModel(p *planner.Planner, save SaveFunc) Model {
	m := Model{
		planner:  p,
		save:     save,
		day:      p.TodayIndex(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		schedule: schedule.New(80, 20),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Day is the index of the selected tab.
func (m Model) Day() int {
	return m.day
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Status() string {
	return m.status
}

func (m Model) Err() error {
	return m.err
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Done, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Today},
		{m.keys.Up, m.keys.Down, m.keys.Done},
		{m.keys.Help, m.keys.Quit},
	}
}
