package system

import (
	"fmt"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/validation"
)

type ValidateCmd struct {
	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}

	result := validation.New().Validate(p)
	ctx.Print(result.FormatReport())
	if !result.HasConflicts() {
		ctx.Println()
		return nil
	}

	for _, conflict := range result.Conflicts {
		logger.Debug("validation conflict", "type", conflict.Type, "day", conflict.Day, "tasks", conflict.TaskIDs)
	}
	if c.Strict {
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}
	return nil
}
