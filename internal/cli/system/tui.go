package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	program := tea.NewProgram(tui.NewModel(p, ctx.Store.SavePlanner), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
