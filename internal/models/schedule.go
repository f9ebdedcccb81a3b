package models

import "fmt"

type EntryKind string

const (
	EntryStatic      EntryKind = "static"
	EntryFree        EntryKind = "free"
	EntryDynamic     EntryKind = "dynamic"
	EntryDynamicPart EntryKind = "dynamic_part"
)

// Entry is one element of a day's schedule. Static is set for EntryStatic,
// Dynamic for EntryDynamic and EntryDynamicPart, and Part (1-based) only for
// EntryDynamicPart. Time is always the occupied window.
type Entry struct {
	Kind    EntryKind    `json:"kind"`
	Time    TimeRange    `json:"time"`
	Static  *StaticTask  `json:"static,omitempty"`
	Dynamic *DynamicTask `json:"dynamic,omitempty"`
	Part    int          `json:"part,omitempty"`
}

func FreeEntry(r TimeRange) Entry {
	return Entry{Kind: EntryFree, Time: r}
}

func StaticEntry(task StaticTask) Entry {
	t := task
	return Entry{Kind: EntryStatic, Time: task.Time, Static: &t}
}

func DynamicEntry(task DynamicTask, r TimeRange) Entry {
	t := task
	return Entry{Kind: EntryDynamic, Time: r, Dynamic: &t}
}

func DynamicPartEntry(task DynamicTask, part int, r TimeRange) Entry {
	t := task.Part(part, r.DurationMin())
	return Entry{Kind: EntryDynamicPart, Time: r, Dynamic: &t, Part: part}
}

func (e Entry) IsFree() bool {
	return e.Kind == EntryFree
}

// Label is the name shown for the entry in listings.
func (e Entry) Label() string {
	switch e.Kind {
	case EntryStatic:
		if e.Static != nil {
			return e.Static.Task.Name
		}
	case EntryDynamic, EntryDynamicPart:
		if e.Dynamic != nil {
			return e.Dynamic.Task().Name
		}
	case EntryFree:
		return "free"
	}
	return "unknown"
}

func (e Entry) String() string {
	return fmt.Sprintf("%s  %-12s %s", e.Time, e.Kind, e.Label())
}

// TotalFreeMin sums the durations of all free entries.
func TotalFreeMin(entries []Entry) int {
	total := 0
	for _, e := range entries {
		if e.IsFree() {
			total += e.Time.DurationMin()
		}
	}
	return total
}

type DiagnosticReason string

const (
	ReasonInsufficientFreeTime DiagnosticReason = "insufficient free time"
	ReasonNoGapLongEnough      DiagnosticReason = "no free gap long enough"
	ReasonWindowNotFree        DiagnosticReason = "fixed window is not free"
	ReasonUnknownTask          DiagnosticReason = "unknown task reference"
	ReasonInvalidTask          DiagnosticReason = "invalid task"
)

// Diagnostic explains why a dynamic task was left out of a schedule.
type Diagnostic struct {
	TaskID   string           `json:"task_id"`
	TaskName string           `json:"task_name"`
	Reason   DiagnosticReason `json:"reason"`
	Detail   string           `json:"detail,omitempty"`
}

func NewDiagnostic(task DynamicTask, reason DiagnosticReason, detail string) Diagnostic {
	t := task.Task()
	return Diagnostic{TaskID: t.ID, TaskName: t.Name, Reason: reason, Detail: detail}
}

func (d Diagnostic) String() string {
	name := d.TaskName
	if name == "" {
		name = d.TaskID
	}
	if d.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", name, d.Reason, d.Detail)
	}
	return fmt.Sprintf("%s: %s", name, d.Reason)
}
