package scheduler

import (
	"fmt"

	"github.com/julianstephens/lunite/internal/models"
)

// PlaceFixed puts a fixed dynamic task into the first free entry that contains its
// window, keeping whatever is left of that entry before and after it as free time.
func PlaceFixed(schedule []models.Entry, task models.DynamicTask) ([]models.Entry, *models.Diagnostic) {
	window := task.Fixed.Task.Time
	out := make([]models.Entry, 0, len(schedule)+2)
	placed := false

	for _, entry := range schedule {
		if placed || !entry.IsFree() || !window.Within(entry.Time) {
			out = append(out, entry)
			continue
		}
		if entry.Time.Start < window.Start {
			out = append(out, models.FreeEntry(models.TimeRange{Start: entry.Time.Start, End: window.Start}))
		}
		out = append(out, models.DynamicEntry(task, window))
		if window.End < entry.Time.End {
			out = append(out, models.FreeEntry(models.TimeRange{Start: window.End, End: entry.Time.End}))
		}
		placed = true
	}

	if !placed {
		d := models.NewDiagnostic(task, models.ReasonWindowNotFree, window.String())
		return schedule, &d
	}
	return out, nil
}

// PlaceSplit spreads a flexible task over free entries in order, filling each gap
// until the requested length is covered. Nothing is placed unless the total free
// time is enough for the whole task.
func PlaceSplit(schedule []models.Entry, task models.DynamicTask) ([]models.Entry, *models.Diagnostic) {
	length := task.Flexible.LengthMin
	if free := models.TotalFreeMin(schedule); free < length {
		d := models.NewDiagnostic(task, models.ReasonInsufficientFreeTime,
			fmt.Sprintf("needs %d min, %d min free", length, free))
		return schedule, &d
	}

	out := make([]models.Entry, 0, len(schedule)+1)
	remaining := length
	part := 0

	for _, entry := range schedule {
		if remaining == 0 || !entry.IsFree() {
			out = append(out, entry)
			continue
		}

		part++
		gap := entry.Time.DurationMin()
		if gap <= remaining {
			out = append(out, models.DynamicPartEntry(task, part, entry.Time))
			remaining -= gap
			continue
		}

		used := models.TimeRange{Start: entry.Time.Start, End: entry.Time.Start.Add(remaining)}
		out = append(out, models.DynamicPartEntry(task, part, used))
		out = append(out, models.FreeEntry(models.TimeRange{Start: used.End, End: entry.Time.End}))
		remaining = 0
	}

	return out, nil
}

// PlaceFirstFit puts an unsplittable flexible task at the start of the first free
// entry long enough to hold it.
func PlaceFirstFit(schedule []models.Entry, task models.DynamicTask) ([]models.Entry, *models.Diagnostic) {
	length := task.Flexible.LengthMin
	out := make([]models.Entry, 0, len(schedule)+1)
	placed := false

	for _, entry := range schedule {
		if placed || !entry.IsFree() || entry.Time.DurationMin() < length {
			out = append(out, entry)
			continue
		}
		used := models.TimeRange{Start: entry.Time.Start, End: entry.Time.Start.Add(length)}
		out = append(out, models.DynamicEntry(task, used))
		if used.End < entry.Time.End {
			out = append(out, models.FreeEntry(models.TimeRange{Start: used.End, End: entry.Time.End}))
		}
		placed = true
	}

	if !placed {
		d := models.NewDiagnostic(task, models.ReasonNoGapLongEnough, fmt.Sprintf("needs %d min", length))
		return schedule, &d
	}
	return out, nil
}
