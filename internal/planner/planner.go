package planner

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/scheduler"
)

var (
	ErrDayOutOfRange   = errors.New("day index out of range (0=Monday..6=Sunday)")
	ErrIndexOutOfRange = errors.New("task index out of range")
	ErrDateInPast      = errors.New("date is before today")
	ErrTaskNotFound    = errors.New("dynamic task not found")
)

// Planner owns a week of days, the pending dynamic tasks (kept sorted by
// models.CompareDynamic) and the log of completed dynamic tasks.
//
// A Planner is not safe for concurrent use.
type Planner struct {
	Config      models.Config              `json:"config"`
	Days        [constants.DaysPerWeek]Day `json:"days"`
	Dynamic     []models.DynamicTask       `json:"dynamic_tasks"`
	DynamicDone []DynamicCompletion        `json:"dynamic_done"`

	now       func() time.Time
	scheduler *scheduler.Scheduler
}

type Option func(*Planner)

// WithClock overrides the time source used for "today" and completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// New returns a planner with seven empty days.
func New(cfg models.Config, opts ...Option) *Planner {
	p := &Planner{Config: cfg}
	p.Attach(opts...)
	return p
}

// Attach wires runtime collaborators into a planner restored from storage.
func (p *Planner) Attach(opts ...Option) {
	p.now = time.Now
	p.scheduler = scheduler.New()
	for _, opt := range opts {
		opt(p)
	}
}

func (p *Planner) clock() time.Time {
	if p.now == nil {
		p.Attach()
	}
	now := p.now()
	if loc, err := p.Config.Location(); err == nil {
		now = now.In(loc)
	}
	return now
}

// Now returns the current time in the configured timezone.
func (p *Planner) Now() time.Time {
	return p.clock()
}

// Today returns today's date (YYYY-MM-DD) in the configured timezone.
func (p *Planner) Today() string {
	return p.clock().Format(constants.DateFormat)
}

// TodayIndex returns today's weekday as a day index, Monday = 0.
func (p *Planner) TodayIndex() int {
	return WeekdayIndex(p.clock().Weekday())
}

// WeekdayIndex maps a time.Weekday (Sunday = 0) to a day index (Monday = 0).
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % constants.DaysPerWeek
}

// DateFor returns the upcoming calendar date of the given day index. Days
// earlier in the week than today resolve to next week's date.
func (p *Planner) DateFor(day int) (string, error) {
	if err := checkDay(day); err != nil {
		return "", err
	}
	now := p.clock()
	offset := (day - WeekdayIndex(now.Weekday()) + constants.DaysPerWeek) % constants.DaysPerWeek
	return now.AddDate(0, 0, offset).Format(constants.DateFormat), nil
}

func checkDay(day int) error {
	if day < 0 || day >= constants.DaysPerWeek {
		return fmt.Errorf("%w: %d", ErrDayOutOfRange, day)
	}
	return nil
}

// AddStatic adds a weekly-recurring task to a day, keeping the day sorted by start time.
func (p *Planner) AddStatic(day int, task models.StaticTask) error {
	if err := checkDay(day); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid static task: %w", err)
	}
	p.Days[day].addStatic(task)
	return nil
}

// RemoveStatic deletes a static task and its completion log entries.
func (p *Planner) RemoveStatic(day, index int) (models.StaticTask, error) {
	if err := checkDay(day); err != nil {
		return models.StaticTask{}, err
	}
	d := &p.Days[day]
	if index < 0 || index >= len(d.StaticTasks) {
		return models.StaticTask{}, fmt.Errorf("%w: %d (day has %d static tasks)", ErrIndexOutOfRange, index, len(d.StaticTasks))
	}
	removed := d.StaticTasks[index]
	d.StaticTasks = append(d.StaticTasks[:index], d.StaticTasks[index+1:]...)

	kept := d.StaticDone[:0]
	for _, c := range d.StaticDone {
		if c.TaskID != removed.Task.ID {
			kept = append(kept, c)
		}
	}
	d.StaticDone = kept
	return removed, nil
}

// AddDynamic inserts a dynamic task into the pending list at its sorted
// position and refreshes the day references. Tasks dated before today are rejected.
func (p *Planner) AddDynamic(task models.DynamicTask) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid dynamic task: %w", err)
	}
	if today := p.Today(); task.Date < today {
		return fmt.Errorf("%w: %s < %s", ErrDateInPast, task.Date, today)
	}

	pos := sort.Search(len(p.Dynamic), func(i int) bool {
		return models.CompareDynamic(p.Dynamic[i], task) > 0
	})
	p.Dynamic = append(p.Dynamic, models.DynamicTask{})
	copy(p.Dynamic[pos+1:], p.Dynamic[pos:])
	p.Dynamic[pos] = task

	p.UpdateDynamics()
	return nil
}

// RemoveDynamic deletes a pending dynamic task by id without logging it as done.
func (p *Planner) RemoveDynamic(id string) (models.DynamicTask, error) {
	idx := p.indexOf(id)
	if idx < 0 {
		return models.DynamicTask{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	removed := p.Dynamic[idx]
	p.Dynamic = append(p.Dynamic[:idx], p.Dynamic[idx+1:]...)
	p.UpdateDynamics()
	return removed, nil
}

// UpdateDynamics rebuilds the dynamic references of today through Sunday from
// the pending list. Days earlier in the week are left untouched.
func (p *Planner) UpdateDynamics() {
	now := p.clock()
	todayIdx := WeekdayIndex(now.Weekday())
	for day := todayIdx; day < constants.DaysPerWeek; day++ {
		date := now.AddDate(0, 0, day-todayIdx).Format(constants.DateFormat)
		refs := []string{}
		for _, task := range p.Dynamic {
			if task.Date == date {
				refs = append(refs, task.ID())
			}
		}
		p.Days[day].DynamicRefs = refs
	}
}

// CompleteStatic logs a completion for today's occurrence of a static task.
// The task stays on the day.
func (p *Planner) CompleteStatic(day, index int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	d := &p.Days[day]
	if index < 0 || index >= len(d.StaticTasks) {
		return fmt.Errorf("%w: %d (day has %d static tasks)", ErrIndexOutOfRange, index, len(d.StaticTasks))
	}
	d.StaticDone = append(d.StaticDone, StaticCompletion{
		TaskID: d.StaticTasks[index].Task.ID,
		DoneAt: p.clock(),
	})
	return nil
}

// CompleteDynamic completes the index-th dynamic task referenced by today. The
// task leaves the pending list and is appended to the completed log.
func (p *Planner) CompleteDynamic(index int) (models.DynamicTask, error) {
	d := &p.Days[p.TodayIndex()]
	if index < 0 || index >= len(d.DynamicRefs) {
		return models.DynamicTask{}, fmt.Errorf("%w: %d (today has %d dynamic tasks)", ErrIndexOutOfRange, index, len(d.DynamicRefs))
	}
	id := d.DynamicRefs[index]
	idx := p.indexOf(id)
	if idx < 0 {
		return models.DynamicTask{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	d.removeRef(index)
	task := p.Dynamic[idx]
	p.Dynamic = append(p.Dynamic[:idx], p.Dynamic[idx+1:]...)
	p.DynamicDone = append(p.DynamicDone, DynamicCompletion{Task: task, DoneAt: p.clock()})
	return task, nil
}

func (p *Planner) indexOf(id string) int {
	for i, task := range p.Dynamic {
		if task.ID() == id {
			return i
		}
	}
	return -1
}

// Lookup returns the pending dynamic task with the given id.
func (p *Planner) Lookup(id string) (models.DynamicTask, bool) {
	if idx := p.indexOf(id); idx >= 0 {
		return p.Dynamic[idx], true
	}
	return models.DynamicTask{}, false
}

// DynamicFor resolves a day's references in stored order. References to tasks
// that are no longer pending are returned as diagnostics.
func (p *Planner) DynamicFor(day int) ([]models.DynamicTask, []models.Diagnostic, error) {
	if err := checkDay(day); err != nil {
		return nil, nil, err
	}
	var (
		tasks []models.DynamicTask
		diags []models.Diagnostic
	)
	for _, id := range p.Days[day].DynamicRefs {
		task, ok := p.Lookup(id)
		if !ok {
			diags = append(diags, models.Diagnostic{TaskID: id, Reason: models.ReasonUnknownTask})
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, diags, nil
}

// GetFreetime returns the day's static tasks interleaved with free gaps.
func (p *Planner) GetFreetime(day int) ([]models.Entry, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	if p.scheduler == nil {
		p.Attach()
	}
	d := &p.Days[day]
	return p.scheduler.Freetime(p.Config, d.StaticTasks, d.doneSet()), nil
}

// GetScheduleWithDynamics places the day's dynamic tasks onto its free time.
// Tasks that do not fit are reported as diagnostics rather than errors.
func (p *Planner) GetScheduleWithDynamics(day int) ([]models.Entry, []models.Diagnostic, error) {
	free, err := p.GetFreetime(day)
	if err != nil {
		return nil, nil, err
	}
	tasks, diags, err := p.DynamicFor(day)
	if err != nil {
		return nil, nil, err
	}
	schedule, placeDiags := p.scheduler.Overlay(free, tasks)
	return schedule, append(diags, placeDiags...), nil
}

// Rollover drops static completions older than a week, so a weekly task is
// pending again on its next occurrence, and refreshes the dynamic references.
// It returns the number of completions dropped.
func (p *Planner) Rollover() int {
	now := p.clock()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := startOfToday.AddDate(0, 0, 1-constants.StaticDoneRetentionDays)

	dropped := 0
	for i := range p.Days {
		dropped += p.Days[i].pruneDone(cutoff)
	}
	p.UpdateDynamics()
	return dropped
}
