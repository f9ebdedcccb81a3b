package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
	"github.com/julianstephens/lunite/internal/utils"
)

type ConflictType string

const (
	ConflictOverlappingStatic   ConflictType = "overlapping_static_tasks"
	ConflictOutsideWakingWindow ConflictType = "outside_waking_window"
	ConflictOvercommitted       ConflictType = "overcommitted"
	ConflictStaleDynamic        ConflictType = "stale_dynamic_task"
	ConflictUnknownReference    ConflictType = "unknown_reference"
	ConflictUnplaceable         ConflictType = "unplaceable_dynamic_task"
)

// Conflict is one problem found in a planner. Day is -1 when the conflict is
// not tied to a weekday.
type Conflict struct {
	Type        ConflictType
	Day         int
	Description string
	TaskIDs     []string
}

type Result struct {
	Conflicts []Conflict
}

func (r Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		if c.Day >= 0 {
			fmt.Fprintf(&b, "- [%s] %s\n", utils.ShortDayName(c.Day), c.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", c.Description)
		}
	}
	return b.String()
}

// Validator checks a planner for problems the core accepts but a user would
// want to hear about.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(p *planner.Planner) Result {
	result := Result{Conflicts: []Conflict{}}
	window := p.Config.Window()

	for day := range p.Days {
		statics := p.Days[day].StaticTasks
		result.Conflicts = append(result.Conflicts, staticConflicts(day, statics, window)...)

		_, diags, err := p.GetScheduleWithDynamics(day)
		if err != nil {
			continue
		}
		for _, d := range diags {
			typ := ConflictUnplaceable
			if d.Reason == models.ReasonUnknownTask {
				typ = ConflictUnknownReference
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        typ,
				Day:         day,
				Description: d.String(),
				TaskIDs:     []string{d.TaskID},
			})
		}
	}

	today := p.Today()
	for _, task := range p.Dynamic {
		if task.Date < today {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStaleDynamic,
				Day:         -1,
				Description: fmt.Sprintf("Dynamic task %q was due %s and is still pending", task.Task().Name, task.Date),
				TaskIDs:     []string{task.ID()},
			})
		}
	}
	return result
}

// staticConflicts checks one day's sorted static tasks.
func staticConflicts(day int, statics []models.StaticTask, window models.TimeRange) []Conflict {
	var conflicts []Conflict
	total := 0
	for i, st := range statics {
		total += st.Time.DurationMin()
		if !st.Time.Within(window) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictOutsideWakingWindow,
				Day:         day,
				Description: fmt.Sprintf("Static task %q (%s) falls outside the waking window %s", st.Task.Name, st.Time, window),
				TaskIDs:     []string{st.Task.ID},
			})
		}
		for _, other := range statics[i+1:] {
			if other.Time.Start >= st.Time.End {
				break
			}
			if st.Time.Overlaps(other.Time) {
				conflicts = append(conflicts, Conflict{
					Type: ConflictOverlappingStatic,
					Day:  day,
					Description: fmt.Sprintf("Static tasks %q (%s) and %q (%s) overlap",
						st.Task.Name, st.Time, other.Task.Name, other.Time),
					TaskIDs: []string{st.Task.ID, other.Task.ID},
				})
			}
		}
	}
	if avail := window.DurationMin(); total > avail {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictOvercommitted,
			Day:         day,
			Description: fmt.Sprintf("Static tasks need %d min but the waking window has %d min", total, avail),
		})
	}
	return conflicts
}
