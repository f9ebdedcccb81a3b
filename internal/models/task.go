package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyTaskName = errors.New("task name cannot be empty")

// Task is the display payload shared by every kind of scheduled item.
// ID is the identity; Name and Description are informational.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewTask creates a task with a fresh identifier.
func NewTask(name, description string) Task {
	return Task{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
	}
}

func (t Task) Validate() error {
	if t.ID == "" {
		return errors.New("task id cannot be empty")
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTaskName
	}
	return nil
}

// StaticTask is a task anchored to a fixed window that recurs every week on its day.
type StaticTask struct {
	Task Task      `json:"task"`
	Time TimeRange `json:"time"`
}

func NewStaticTask(name, description string, window TimeRange) (StaticTask, error) {
	st := StaticTask{Task: NewTask(name, description), Time: window}
	if err := st.Validate(); err != nil {
		return StaticTask{}, err
	}
	return st, nil
}

func (s StaticTask) Validate() error {
	if err := s.Task.Validate(); err != nil {
		return err
	}
	if err := s.Time.Validate(); err != nil {
		return fmt.Errorf("task %q: %w", s.Task.Name, err)
	}
	return nil
}

// SortStatic orders static tasks by start time. Ties keep their relative order.
func SortStatic(tasks []StaticTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Time.Start < tasks[j].Time.Start
	})
}
