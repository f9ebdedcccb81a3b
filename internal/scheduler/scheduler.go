package scheduler

import (
	"github.com/julianstephens/lunite/internal/models"
)

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// Freetime lays out a day's static tasks between wake and bed time, emitting
// free entries for every positive gap. Completed static tasks (present in done)
// are left out so their windows become free again, and so are tasks lying wholly
// outside the waking window. Free time never extends past bed time. statics must
// be sorted by start.
func (s *Scheduler) Freetime(cfg models.Config, statics []models.StaticTask, done map[string]bool) []models.Entry {
	window := cfg.Window()
	var pending []models.StaticTask
	for _, task := range statics {
		if done[task.Task.ID] || !task.Time.Overlaps(window) {
			continue
		}
		pending = append(pending, task)
	}

	if len(pending) == 0 {
		if window.Start >= window.End {
			return []models.Entry{}
		}
		return []models.Entry{models.FreeEntry(window)}
	}

	entries := make([]models.Entry, 0, len(pending)*2+1)
	cursor := window.Start
	for _, task := range pending {
		if end := min(task.Time.Start, window.End); cursor < end {
			entries = append(entries, models.FreeEntry(models.TimeRange{Start: cursor, End: end}))
		}
		entries = append(entries, models.StaticEntry(task))
		if task.Time.End > cursor {
			cursor = task.Time.End
		}
	}

	if cursor < window.End {
		entries = append(entries, models.FreeEntry(models.TimeRange{Start: cursor, End: window.End}))
	}

	return entries
}

// Overlay places dynamic tasks onto a free-time sequence in the given order.
// Tasks that cannot be placed are reported as diagnostics; the remaining tasks
// are still placed.
func (s *Scheduler) Overlay(schedule []models.Entry, tasks []models.DynamicTask) ([]models.Entry, []models.Diagnostic) {
	current := append([]models.Entry(nil), schedule...)
	var diags []models.Diagnostic

	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			diags = append(diags, models.NewDiagnostic(task, models.ReasonInvalidTask, err.Error()))
			continue
		}

		var (
			next []models.Entry
			diag *models.Diagnostic
		)
		switch task.Kind {
		case models.DynamicFixed:
			next, diag = PlaceFixed(current, task)
		case models.DynamicFlexible:
			if task.Flexible.CanSplit {
				next, diag = PlaceSplit(current, task)
			} else {
				next, diag = PlaceFirstFit(current, task)
			}
		}

		if diag != nil {
			diags = append(diags, *diag)
			continue
		}
		current = next
	}

	return current, diags
}
