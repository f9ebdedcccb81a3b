package planner

import (
	"time"

	"github.com/julianstephens/lunite/internal/models"
)

// StaticCompletion records that a static task's occurrence was finished.
type StaticCompletion struct {
	TaskID string    `json:"task_id"`
	DoneAt time.Time `json:"done_at"`
}

// DynamicCompletion is a dynamic task moved out of the pending list.
type DynamicCompletion struct {
	Task   models.DynamicTask `json:"task"`
	DoneAt time.Time          `json:"done_at"`
}

// Day holds one weekday's recurring static tasks, their completion log, and the
// IDs of the pending dynamic tasks dated on this weekday's upcoming date.
type Day struct {
	StaticTasks []models.StaticTask `json:"static_tasks"`
	StaticDone  []StaticCompletion  `json:"static_done"`
	DynamicRefs []string            `json:"dynamic_refs"`
}

func (d *Day) addStatic(task models.StaticTask) {
	d.StaticTasks = append(d.StaticTasks, task)
	models.SortStatic(d.StaticTasks)
}

// doneSet returns the IDs of static tasks with a logged completion.
func (d *Day) doneSet() map[string]bool {
	done := make(map[string]bool, len(d.StaticDone))
	for _, c := range d.StaticDone {
		done[c.TaskID] = true
	}
	return done
}

// IsStaticDone reports whether the static task has a logged completion.
func (d *Day) IsStaticDone(taskID string) bool {
	for _, c := range d.StaticDone {
		if c.TaskID == taskID {
			return true
		}
	}
	return false
}

func (d *Day) removeRef(i int) string {
	id := d.DynamicRefs[i]
	d.DynamicRefs = append(d.DynamicRefs[:i], d.DynamicRefs[i+1:]...)
	return id
}

// pruneDone drops completions logged before cutoff.
func (d *Day) pruneDone(cutoff time.Time) int {
	kept := d.StaticDone[:0]
	dropped := 0
	for _, c := range d.StaticDone {
		if c.DoneAt.Before(cutoff) {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	d.StaticDone = kept
	return dropped
}
