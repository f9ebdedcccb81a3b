package tasks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lunite/internal/models"
)

const (
	kindFixed    = string(models.DynamicFixed)
	kindFlexible = string(models.DynamicFlexible)
)

// dynamicForm holds the string-typed form fields before they are copied onto the command.
type dynamicForm struct {
	Name     string
	Date     string
	Kind     string
	At       string
	Length   string
	Around   string
	Split    bool
	Priority string
}

func newDynamicForm(fm *dynamicForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return models.ErrEmptyTaskName
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD, a weekday, today or tomorrow").
				Value(&fm.Date),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Flexible (needs some free time)", kindFlexible),
					huh.NewOption("Fixed (exact window)", kindFixed),
				).
				Value(&fm.Kind),
			huh.NewInput().
				Title("Priority").
				Value(&fm.Priority).
				Validate(func(s string) error {
					_, err := strconv.Atoi(strings.TrimSpace(s))
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Window (HH:MM-HH:MM)").
				Value(&fm.At).
				Validate(func(s string) error {
					_, err := models.ParseTimeRange(s)
					return err
				}),
		).WithHideFunc(func() bool { return fm.Kind != kindFixed }),
		huh.NewGroup(
			huh.NewInput().
				Title("Length (min)").
				Value(&fm.Length).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("length must be a positive number of minutes")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Around").
				Options(huh.NewOptions(
					string(models.PartMorning),
					string(models.PartAfternoon),
					string(models.PartEvening),
					string(models.PartNight),
				)...).
				Value(&fm.Around),
			huh.NewConfirm().
				Title("Can be split across free gaps?").
				Value(&fm.Split),
		).WithHideFunc(func() bool { return fm.Kind != kindFlexible }),
	).WithTheme(huh.ThemeDracula())
}

// apply copies the completed form onto the command.
func (fm *dynamicForm) apply(c *DynamicAddCmd) {
	c.Name = strings.TrimSpace(fm.Name)
	if d := strings.TrimSpace(fm.Date); d != "" {
		c.Date = d
	}
	c.Priority, _ = strconv.Atoi(strings.TrimSpace(fm.Priority))
	c.At, c.Length = "", 0
	if fm.Kind == kindFixed {
		c.At = fm.At
		return
	}
	c.Length, _ = strconv.Atoi(strings.TrimSpace(fm.Length))
	c.Around = fm.Around
	c.Split = fm.Split
}

func formFromCmd(c *DynamicAddCmd) *dynamicForm {
	fm := &dynamicForm{
		Name:     c.Name,
		Date:     c.Date,
		Kind:     kindFlexible,
		At:       c.At,
		Around:   c.Around,
		Split:    c.Split,
		Priority: strconv.Itoa(c.Priority),
	}
	if c.At != "" {
		fm.Kind = kindFixed
	}
	if c.Length > 0 {
		fm.Length = strconv.Itoa(c.Length)
	}
	if fm.Around == "" {
		fm.Around = string(models.PartMorning)
	}
	return fm
}

func runDynamicForm(c *DynamicAddCmd) error {
	fm := formFromCmd(c)
	if err := newDynamicForm(fm).Run(); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}
	fm.apply(c)
	return nil
}
