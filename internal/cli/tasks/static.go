package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
	"github.com/julianstephens/lunite/internal/utils"
)

type StaticAddCmd struct {
	Day         string `arg:"" help:"Weekday (monday..sunday, mon, 0-6 with 0=Monday, today, tomorrow)."`
	Name        string `arg:"" help:"Task name."`
	Time        string `arg:"" help:"Time window, HH:MM-HH:MM."`
	Description string `short:"d" help:"Optional description."`
}

func (c *StaticAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return models.ErrEmptyTaskName
	}
	if _, err := models.ParseTimeRange(c.Time); err != nil {
		return err
	}
	return nil
}

func (c *StaticAddCmd) Run(ctx *cli.Context) error {
	window, err := models.ParseTimeRange(c.Time)
	if err != nil {
		return err
	}
	task, err := models.NewStaticTask(c.Name, c.Description, window)
	if err != nil {
		return err
	}

	return ctx.Mutate(func(p *planner.Planner) error {
		day, err := cli.ResolveDay(p, c.Day)
		if err != nil {
			return err
		}
		if !window.Within(p.Config.Window()) {
			ctx.Printf("⚠ %s is outside the waking window %s and will not be scheduled around\n", window, p.Config.Window())
		}
		if err := p.AddStatic(day, task); err != nil {
			return err
		}
		logger.Info("static task added", "id", task.Task.ID, "day", day, "window", window.String())
		ctx.Printf("✓ Added static task %q on %s (%s)\n", task.Task.Name, utils.DayName(day), window)
		return nil
	})
}

type StaticListCmd struct {
	Day string `arg:"" optional:"" help:"Weekday to list. Lists the whole week when omitted."`
}

func (c *StaticListCmd) Run(ctx *cli.Context) error {
	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}

	days := make([]int, 0, constants.DaysPerWeek)
	if c.Day != "" {
		day, err := cli.ResolveDay(p, c.Day)
		if err != nil {
			return err
		}
		days = append(days, day)
	} else {
		for day := 0; day < constants.DaysPerWeek; day++ {
			days = append(days, day)
		}
	}

	for i, day := range days {
		if i > 0 {
			ctx.Println()
		}
		d := p.Days[day]
		ctx.Printf("%s:\n", utils.DayName(day))
		if len(d.StaticTasks) == 0 {
			ctx.Println("  No static tasks")
			continue
		}
		for n, st := range d.StaticTasks {
			status := ""
			if d.IsStaticDone(st.Task.ID) {
				status = " [done]"
			}
			ctx.Printf("  %d. %s  %s%s\n", n+1, st.Time, st.Task.Name, status)
			if st.Task.Description != "" {
				ctx.Printf("     %s\n", st.Task.Description)
			}
		}
	}
	return nil
}

type StaticDoneCmd struct {
	Day   string `arg:"" help:"Weekday of the task."`
	Index int    `arg:"" help:"Task number as shown by 'static list'."`
}

func (c *StaticDoneCmd) Run(ctx *cli.Context) error {
	return ctx.Mutate(func(p *planner.Planner) error {
		day, err := cli.ResolveDay(p, c.Day)
		if err != nil {
			return err
		}
		if err := p.CompleteStatic(day, c.Index-1); err != nil {
			return err
		}
		task := p.Days[day].StaticTasks[c.Index-1]
		if n := completions(p.Days[day], task.Task.ID); n > 1 {
			logger.Debug("static task completed again", "id", task.Task.ID, "count", n)
		}
		logger.Info("static task completed", "id", task.Task.ID, "day", day)
		ctx.Printf("✓ Completed %q on %s\n", task.Task.Name, utils.DayName(day))
		return nil
	})
}

type StaticRemoveCmd struct {
	Day   string `arg:"" help:"Weekday of the task."`
	Index int    `arg:"" help:"Task number as shown by 'static list'."`
}

func (c *StaticRemoveCmd) Run(ctx *cli.Context) error {
	return ctx.Mutate(func(p *planner.Planner) error {
		day, err := cli.ResolveDay(p, c.Day)
		if err != nil {
			return err
		}
		removed, err := p.RemoveStatic(day, c.Index-1)
		if err != nil {
			return err
		}
		logger.Info("static task removed", "id", removed.Task.ID, "day", day)
		ctx.Printf("✓ Removed %q from %s\n", removed.Task.Name, utils.DayName(day))
		return nil
	})
}

// resolveDate accepts YYYY-MM-DD or anything cli.ResolveDay understands, which
// maps to that weekday's upcoming date.
func resolveDate(p *planner.Planner, s string) (string, error) {
	if len(s) == len(constants.DateFormat) && strings.Count(s, "-") == 2 {
		return s, nil
	}
	day, err := cli.ResolveDay(p, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: use YYYY-MM-DD or a weekday", s)
	}
	return p.DateFor(day)
}

func completions(d planner.Day, taskID string) int {
	n := 0
	for _, c := range d.StaticDone {
		if c.TaskID == taskID {
			n++
		}
	}
	return n
}
