package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lunite/internal/constants"
)

type DynamicKind string

const (
	DynamicFixed    DynamicKind = "fixed"
	DynamicFlexible DynamicKind = "flexible"
)

var ErrInvalidLength = errors.New("length must be greater than zero")

// FixedSpec is the payload of a dynamic task that must occupy an exact window.
type FixedSpec struct {
	Task StaticTask `json:"task"`
}

// FlexibleSpec is the payload of a dynamic task that needs LengthMin minutes of free time.
type FlexibleSpec struct {
	Task      Task      `json:"task"`
	LengthMin int       `json:"length_min"`
	Around    PartOfDay `json:"around"`
	CanSplit  bool      `json:"can_split"`
}

// DynamicTask is a one-off task for a calendar date. Exactly one of Fixed or
// Flexible is set, matching Kind.
type DynamicTask struct {
	Kind     DynamicKind   `json:"kind"`
	Date     string        `json:"date"` // YYYY-MM-DD format
	Priority int           `json:"priority"`
	Fixed    *FixedSpec    `json:"fixed,omitempty"`
	Flexible *FlexibleSpec `json:"flexible,omitempty"`
}

func NewFixedDynamic(task StaticTask, date string, priority int) DynamicTask {
	return DynamicTask{
		Kind:     DynamicFixed,
		Date:     date,
		Priority: priority,
		Fixed:    &FixedSpec{Task: task},
	}
}

func NewFlexibleDynamic(task Task, date string, lengthMin int, around PartOfDay, canSplit bool, priority int) DynamicTask {
	return DynamicTask{
		Kind:     DynamicFlexible,
		Date:     date,
		Priority: priority,
		Flexible: &FlexibleSpec{
			Task:      task,
			LengthMin: lengthMin,
			Around:    around,
			CanSplit:  canSplit,
		},
	}
}

func (d DynamicTask) Validate() error {
	if _, err := time.Parse(constants.DateFormat, d.Date); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", d.Date, err)
	}
	switch d.Kind {
	case DynamicFixed:
		if d.Fixed == nil || d.Flexible != nil {
			return errors.New("fixed dynamic task must carry only a fixed payload")
		}
		return d.Fixed.Task.Validate()
	case DynamicFlexible:
		if d.Flexible == nil || d.Fixed != nil {
			return errors.New("flexible dynamic task must carry only a flexible payload")
		}
		if err := d.Flexible.Task.Validate(); err != nil {
			return err
		}
		if d.Flexible.LengthMin <= 0 {
			return ErrInvalidLength
		}
		return d.Flexible.Around.Validate()
	default:
		return fmt.Errorf("unknown dynamic task kind: %q", d.Kind)
	}
}

// Task returns the display payload regardless of kind.
func (d DynamicTask) Task() Task {
	switch d.Kind {
	case DynamicFixed:
		if d.Fixed != nil {
			return d.Fixed.Task.Task
		}
	case DynamicFlexible:
		if d.Flexible != nil {
			return d.Flexible.Task
		}
	}
	return Task{}
}

func (d DynamicTask) ID() string {
	return d.Task().ID
}

// Part derives the n-th (1-based) fragment of a flexible task covering lengthMin minutes.
func (d DynamicTask) Part(n, lengthMin int) DynamicTask {
	part := d
	if d.Flexible == nil {
		return part
	}
	flex := *d.Flexible
	flex.LengthMin = lengthMin
	flex.Task.Name = fmt.Sprintf("%s (%d)", d.Flexible.Task.Name, n)
	part.Flexible = &flex
	return part
}

// Describe renders a one-line summary for listings.
func (d DynamicTask) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", d.Date, d.Task().Name)
	switch d.Kind {
	case DynamicFixed:
		if d.Fixed != nil {
			fmt.Fprintf(&b, "  [fixed %s]", d.Fixed.Task.Time)
		}
	case DynamicFlexible:
		if d.Flexible != nil {
			fmt.Fprintf(&b, "  [%d min, %s", d.Flexible.LengthMin, d.Flexible.Around)
			if d.Flexible.CanSplit {
				b.WriteString(", splittable")
			}
			b.WriteString("]")
		}
	}
	fmt.Fprintf(&b, "  p%d", d.Priority)
	return b.String()
}

// CompareDynamic is the total order of the pending list: date ascending, fixed
// before flexible, then fixed tasks by window start, id and priority, and
// flexible tasks by preferred part of day and priority.
func CompareDynamic(a, b DynamicTask) int {
	if c := strings.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	if a.Kind != b.Kind {
		if a.Kind == DynamicFixed {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case DynamicFixed:
		if a.Fixed == nil || b.Fixed == nil {
			return 0
		}
		if a.Fixed.Task.Time.Start != b.Fixed.Task.Time.Start {
			return int(a.Fixed.Task.Time.Start - b.Fixed.Task.Time.Start)
		}
		if c := strings.Compare(a.ID(), b.ID()); c != 0 {
			return c
		}
	case DynamicFlexible:
		if a.Flexible == nil || b.Flexible == nil {
			return 0
		}
		if c := ComparePartOfDay(a.Flexible.Around, b.Flexible.Around); c != 0 {
			return c
		}
	}
	return a.Priority - b.Priority
}
