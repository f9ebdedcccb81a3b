package plans

import (
	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/planner"
)

type FreetimeCmd struct {
	Day string `arg:"" optional:"" help:"Weekday to show (default today)."`
}

func (c *FreetimeCmd) Run(ctx *cli.Context) error {
	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}
	day, err := cli.ResolveDay(p, c.Day)
	if err != nil {
		return err
	}
	entries, err := p.GetFreetime(day)
	if err != nil {
		return err
	}
	cli.PrintSchedule(ctx.Stdout(), "Free time for "+cli.DayHeading(p, day), entries, nil)
	return nil
}

type ScheduleCmd struct {
	Day  string `arg:"" optional:"" help:"Weekday to show (default today)."`
	Week bool   `short:"w" help:"Show every day from today through Sunday."`
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}

	days := []int{}
	if c.Week {
		for day := p.TodayIndex(); day < constants.DaysPerWeek; day++ {
			days = append(days, day)
		}
	} else {
		day, err := cli.ResolveDay(p, c.Day)
		if err != nil {
			return err
		}
		days = append(days, day)
	}

	for i, day := range days {
		if i > 0 {
			ctx.Println()
		}
		if err := printSchedule(ctx, p, day); err != nil {
			return err
		}
	}
	return nil
}

func printSchedule(ctx *cli.Context, p *planner.Planner, day int) error {
	entries, diags, err := p.GetScheduleWithDynamics(day)
	if err != nil {
		return err
	}
	for _, d := range diags {
		logger.Warn("dynamic task not placed", "day", day, "task", d.TaskID, "reason", d.Reason, "detail", d.Detail)
	}
	cli.PrintSchedule(ctx.Stdout(), "Schedule for "+cli.DayHeading(p, day), entries, diags)
	return nil
}
