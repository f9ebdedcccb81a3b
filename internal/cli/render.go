package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
	"github.com/julianstephens/lunite/internal/utils"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	freeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	staticStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dynamicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ResolveDay turns a day argument into a day index relative to the planner's today.
func ResolveDay(p *planner.Planner, arg string) (int, error) {
	return utils.ParseDay(arg, p.TodayIndex())
}

// DayHeading is "Wednesday 2026-01-07" for the upcoming occurrence of day.
func DayHeading(p *planner.Planner, day int) string {
	date, err := p.DateFor(day)
	if err != nil {
		return utils.DayName(day)
	}
	return fmt.Sprintf("%s %s", utils.DayName(day), date)
}

// RenderEntry formats one schedule line.
func RenderEntry(e models.Entry) string {
	when := timeStyle.Render(e.Time.String())
	label := e.Label()
	switch e.Kind {
	case models.EntryFree:
		return fmt.Sprintf("  %s  %s", when, freeStyle.Render(fmt.Sprintf("free (%d min)", e.Time.DurationMin())))
	case models.EntryStatic:
		return fmt.Sprintf("  %s  %s", when, staticStyle.Render(label))
	default:
		return fmt.Sprintf("  %s  %s", when, dynamicStyle.Render(label))
	}
}

// PrintSchedule writes a titled schedule followed by any diagnostics.
func PrintSchedule(w io.Writer, title string, entries []models.Entry, diags []models.Diagnostic) {
	fmt.Fprintln(w, headerStyle.Render(title))
	if len(entries) == 0 {
		fmt.Fprintln(w, "  Nothing scheduled (the waking window is empty).")
	}
	for _, e := range entries {
		fmt.Fprintln(w, RenderEntry(e))
	}
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(w)
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, warnStyle.Render("⚠ "+d.String()))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
