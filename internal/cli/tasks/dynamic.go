package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
)

type DynamicAddCmd struct {
	Name        string `arg:"" optional:"" help:"Task name."`
	Date        string `help:"Date (YYYY-MM-DD, weekday, today or tomorrow)." default:"today"`
	At          string `help:"Exact window HH:MM-HH:MM. Makes the task fixed."`
	Length      int    `short:"l" help:"Length in minutes of a flexible task."`
	Around      string `help:"Preferred part of day: morning, afternoon, evening, night or HH:MM-HH:MM." default:"morning"`
	Split       bool   `short:"s" help:"Allow a flexible task to be split across free gaps."`
	Priority    int    `short:"p" help:"Priority; ties between flexible tasks are broken by it." default:"0"`
	Description string `short:"d" help:"Optional description."`
	Interactive bool   `short:"i" help:"Fill in the task with an interactive form."`
}

func (c *DynamicAddCmd) Validate() error {
	if c.Interactive {
		return nil
	}
	if strings.TrimSpace(c.Name) == "" {
		return models.ErrEmptyTaskName
	}
	switch {
	case c.At != "" && c.Length != 0:
		return errors.New("use either --at (fixed) or --length (flexible), not both")
	case c.At == "" && c.Length <= 0:
		return errors.New("a dynamic task needs --at HH:MM-HH:MM or a positive --length")
	case c.At != "":
		if _, err := models.ParseTimeRange(c.At); err != nil {
			return err
		}
	default:
		if _, err := models.ParsePartOfDay(c.Around); err != nil {
			return err
		}
	}
	return nil
}

// build turns the flags into a task dated on date.
func (c *DynamicAddCmd) build(date string) (models.DynamicTask, error) {
	if c.At != "" {
		window, err := models.ParseTimeRange(c.At)
		if err != nil {
			return models.DynamicTask{}, err
		}
		st, err := models.NewStaticTask(c.Name, c.Description, window)
		if err != nil {
			return models.DynamicTask{}, err
		}
		return models.NewFixedDynamic(st, date, c.Priority), nil
	}

	around, err := models.ParsePartOfDay(c.Around)
	if err != nil {
		return models.DynamicTask{}, err
	}
	task := models.NewTask(c.Name, c.Description)
	return models.NewFlexibleDynamic(task, date, c.Length, around, c.Split, c.Priority), nil
}

func (c *DynamicAddCmd) Run(ctx *cli.Context) error {
	if c.Interactive {
		if err := runDynamicForm(c); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}

	return ctx.Mutate(func(p *planner.Planner) error {
		date, err := resolveDate(p, c.Date)
		if err != nil {
			return err
		}
		task, err := c.build(date)
		if err != nil {
			return err
		}
		if err := p.AddDynamic(task); err != nil {
			return err
		}
		logger.Info("dynamic task added", "id", task.ID(), "kind", task.Kind, "date", date)
		ctx.Printf("✓ Added %s dynamic task %q for %s\n", task.Kind, task.Task().Name, date)
		return nil
	})
}

type DynamicListCmd struct {
	Done bool `help:"Show completed dynamic tasks instead of pending ones."`
}

func (c *DynamicListCmd) Run(ctx *cli.Context) error {
	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}

	if c.Done {
		if len(p.DynamicDone) == 0 {
			ctx.Println("No completed dynamic tasks")
			return nil
		}
		for _, done := range p.DynamicDone {
			ctx.Printf("  %s  %s\n", done.DoneAt.Format(constants.DateFormat+" "+constants.TimeFormat), done.Task.Describe())
		}
		return nil
	}

	today := p.TodayIndex()
	todays, diags, err := p.DynamicFor(today)
	if err != nil {
		return err
	}
	ctx.Printf("Today (%s):\n", cli.DayHeading(p, today))
	if len(todays) == 0 {
		ctx.Println("  No dynamic tasks")
	}
	for n, task := range todays {
		ctx.Printf("  %d. %s\n", n+1, task.Describe())
	}
	for _, d := range diags {
		logger.Warn("stale dynamic reference", "id", d.TaskID)
	}

	todayDate := p.Today()
	var upcoming []models.DynamicTask
	for _, task := range p.Dynamic {
		if task.Date != todayDate {
			upcoming = append(upcoming, task)
		}
	}
	if len(upcoming) == 0 {
		return nil
	}
	ctx.Println()
	ctx.Println("Other pending:")
	for _, task := range upcoming {
		ctx.Printf("  %s  %s\n", shortID(task.ID()), task.Describe())
	}
	return nil
}

type DynamicDoneCmd struct {
	Index int `arg:"" help:"Number of today's task as shown by 'dynamic list'."`
}

func (c *DynamicDoneCmd) Run(ctx *cli.Context) error {
	return ctx.Mutate(func(p *planner.Planner) error {
		task, err := p.CompleteDynamic(c.Index - 1)
		if err != nil {
			return err
		}
		logger.Info("dynamic task completed", "id", task.ID())
		ctx.Printf("✓ Completed %q\n", task.Task().Name)
		return nil
	})
}

type DynamicRemoveCmd struct {
	ID string `arg:"" help:"Task ID or a unique prefix of it."`
}

func (c *DynamicRemoveCmd) Run(ctx *cli.Context) error {
	return ctx.Mutate(func(p *planner.Planner) error {
		id, err := matchID(p, c.ID)
		if err != nil {
			return err
		}
		removed, err := p.RemoveDynamic(id)
		if err != nil {
			return err
		}
		logger.Info("dynamic task removed", "id", id)
		ctx.Printf("✓ Removed %q (%s)\n", removed.Task().Name, removed.Date)
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchID resolves a full ID or a unique prefix among pending dynamic tasks.
func matchID(p *planner.Planner, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("task ID cannot be empty")
	}
	var matches []string
	for _, task := range p.Dynamic {
		if task.ID() == prefix {
			return prefix, nil
		}
		if strings.HasPrefix(task.ID(), prefix) {
			matches = append(matches, task.ID())
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", planner.ErrTaskNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ID prefix %q matches %d tasks", prefix, len(matches))
	}
}
