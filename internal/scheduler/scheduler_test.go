package scheduler

import (
	"testing"

	"github.com/julianstephens/lunite/internal/models"
)

func clock(s string) models.TimeOfDay {
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func window(start, end string) models.TimeRange {
	return models.TimeRange{Start: clock(start), End: clock(end)}
}

func static(name, start, end string) models.StaticTask {
	return models.StaticTask{Task: models.NewTask(name, ""), Time: window(start, end)}
}

func testConfig(wake, bed string) models.Config {
	return models.Config{WakeTime: clock(wake), BedTime: clock(bed), Timezone: "UTC"}
}

type want struct {
	kind  models.EntryKind
	start string
	end   string
}

func assertEntries(t *testing.T, got []models.Entry, expected []want) {
	t.Helper()
	if len(got) != len(expected) {
		for _, e := range got {
			t.Logf("  %s", e)
		}
		t.Fatalf("got %d entries, want %d", len(got), len(expected))
	}
	for i, w := range expected {
		if got[i].Kind != w.kind || got[i].Time != window(w.start, w.end) {
			t.Errorf("entry %d = %s %s, want %s %s-%s", i, got[i].Kind, got[i].Time, w.kind, w.start, w.end)
		}
	}
}

// assertCovers checks the entries tile [wake, bed) with no gaps or overlaps.
func assertCovers(t *testing.T, entries []models.Entry, cfg models.Config) {
	t.Helper()
	cursor := cfg.WakeTime
	for _, e := range entries {
		if e.Time.Start != cursor {
			t.Fatalf("entry %s starts at %s, want %s", e, e.Time.Start, cursor)
		}
		cursor = e.Time.End
	}
	if cursor != cfg.BedTime {
		t.Fatalf("entries end at %s, want %s", cursor, cfg.BedTime)
	}
}

func TestFreetime_Example(t *testing.T) {
	s := New()
	cfg := testConfig("08:00", "21:00")
	statics := []models.StaticTask{
		static("Gym", "08:00", "10:00"),
		static("Standup", "11:00", "12:00"),
	}

	got := s.Freetime(cfg, statics, nil)

	assertEntries(t, got, []want{
		{models.EntryStatic, "08:00", "10:00"},
		{models.EntryFree, "10:00", "11:00"},
		{models.EntryStatic, "11:00", "12:00"},
		{models.EntryFree, "12:00", "21:00"},
	})
	assertCovers(t, got, cfg)
}

func TestFreetime_NoTasks(t *testing.T) {
	s := New()
	cfg := testConfig("07:00", "22:00")

	got := s.Freetime(cfg, nil, nil)

	assertEntries(t, got, []want{{models.EntryFree, "07:00", "22:00"}})
}

func TestFreetime_GapsAtBothEnds(t *testing.T) {
	s := New()
	cfg := testConfig("07:00", "22:00")
	statics := []models.StaticTask{
		static("Lunch", "12:00", "13:00"),
		static("Call", "13:00", "13:30"),
	}

	got := s.Freetime(cfg, statics, nil)

	assertEntries(t, got, []want{
		{models.EntryFree, "07:00", "12:00"},
		{models.EntryStatic, "12:00", "13:00"},
		{models.EntryStatic, "13:00", "13:30"},
		{models.EntryFree, "13:30", "22:00"},
	})
	assertCovers(t, got, cfg)
}

func TestFreetime_CompletedTaskBecomesFree(t *testing.T) {
	s := New()
	cfg := testConfig("08:00", "21:00")
	gym := static("Gym", "08:00", "10:00")
	standup := static("Standup", "11:00", "12:00")

	got := s.Freetime(cfg, []models.StaticTask{gym, standup}, map[string]bool{standup.Task.ID: true})

	assertEntries(t, got, []want{
		{models.EntryStatic, "08:00", "10:00"},
		{models.EntryFree, "10:00", "21:00"},
	})
	for _, e := range got {
		if e.Kind == models.EntryStatic && e.Static.Task.ID == standup.Task.ID {
			t.Error("completed static task should not appear in free time")
		}
	}

	all := s.Freetime(cfg, []models.StaticTask{gym, standup}, map[string]bool{gym.Task.ID: true, standup.Task.ID: true})
	assertEntries(t, all, []want{{models.EntryFree, "08:00", "21:00"}})
}

func TestFreetime_StaticsOutsideWindow(t *testing.T) {
	s := New()
	cfg := testConfig("08:00", "21:00")

	tests := []struct {
		name    string
		statics []models.StaticTask
		want    []want
	}{
		{
			name:    "after bed",
			statics: []models.StaticTask{static("Late show", "22:00", "23:00")},
			want:    []want{{models.EntryFree, "08:00", "21:00"}},
		},
		{
			name:    "before wake",
			statics: []models.StaticTask{static("Early run", "05:00", "06:00")},
			want:    []want{{models.EntryFree, "08:00", "21:00"}},
		},
		{
			name: "both sides of an inside task",
			statics: []models.StaticTask{
				static("Early run", "05:00", "06:00"),
				static("Lunch", "12:00", "13:00"),
				static("Late show", "22:00", "23:00"),
			},
			want: []want{
				{models.EntryFree, "08:00", "12:00"},
				{models.EntryStatic, "12:00", "13:00"},
				{models.EntryFree, "13:00", "21:00"},
			},
		},
		{
			name:    "straddling bed time",
			statics: []models.StaticTask{static("Movie", "20:00", "22:30")},
			want: []want{
				{models.EntryFree, "08:00", "20:00"},
				{models.EntryStatic, "20:00", "22:30"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Freetime(cfg, tt.statics, nil)
			assertEntries(t, got, tt.want)
			for _, e := range got {
				if e.IsFree() && (e.Time.Start < cfg.WakeTime || e.Time.End > cfg.BedTime) {
					t.Errorf("free entry %s extends outside %s", e.Time, cfg.Window())
				}
			}
		})
	}
}

func TestOverlay_NothingPlacedAfterBed(t *testing.T) {
	s := New()
	cfg := testConfig("08:00", "21:00")
	free := s.Freetime(cfg, []models.StaticTask{static("Late show", "22:00", "23:00")}, nil)

	// 810 minutes would only fit if free time ran on to 22:00.
	long := models.NewFlexibleDynamic(models.NewTask("Marathon", ""), "2026-01-05", 810, models.Morning, false, 1)
	got, diags := s.Overlay(free, []models.DynamicTask{long})

	if len(diags) != 1 || diags[0].Reason != models.ReasonNoGapLongEnough {
		t.Fatalf("expected a no-gap diagnostic, got %v", diags)
	}
	assertEntries(t, got, []want{{models.EntryFree, "08:00", "21:00"}})
}

func TestOverlay_FirstFitExample(t *testing.T) {
	s := New()
	cfg := testConfig("08:00", "21:00")
	free := s.Freetime(cfg, []models.StaticTask{
		static("Gym", "08:00", "10:00"),
		static("Standup", "11:00", "12:00"),
	}, nil)

	task := models.NewFlexibleDynamic(models.NewTask("Read", ""), "2026-01-05", 90, models.Morning, false, 1)
	got, diags := s.Overlay(free, []models.DynamicTask{task})

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertEntries(t, got, []want{
		{models.EntryStatic, "08:00", "10:00"},
		{models.EntryFree, "10:00", "11:00"},
		{models.EntryStatic, "11:00", "12:00"},
		{models.EntryDynamic, "12:00", "13:30"},
		{models.EntryFree, "13:30", "21:00"},
	})
	assertCovers(t, got, cfg)
}

func TestOverlay_ContinuesAfterDiagnostic(t *testing.T) {
	s := New()
	cfg := testConfig("09:00", "10:00")
	free := s.Freetime(cfg, nil, nil)

	tooLong := models.NewFlexibleDynamic(models.NewTask("Marathon", ""), "2026-01-05", 120, models.Morning, false, 1)
	short := models.NewFlexibleDynamic(models.NewTask("Email", ""), "2026-01-05", 15, models.Morning, false, 2)

	got, diags := s.Overlay(free, []models.DynamicTask{tooLong, short})

	if len(diags) != 1 || diags[0].TaskID != tooLong.ID() {
		t.Fatalf("diagnostics = %v, want one for %s", diags, tooLong.ID())
	}
	if diags[0].Reason != models.ReasonNoGapLongEnough {
		t.Errorf("reason = %q", diags[0].Reason)
	}
	assertEntries(t, got, []want{
		{models.EntryDynamic, "09:00", "09:15"},
		{models.EntryFree, "09:15", "10:00"},
	})
}

func TestOverlay_InvalidTaskIsDiagnosed(t *testing.T) {
	s := New()
	free := s.Freetime(testConfig("09:00", "10:00"), nil, nil)
	bad := models.NewFlexibleDynamic(models.NewTask("Nothing", ""), "2026-01-05", 0, models.Morning, true, 1)

	got, diags := s.Overlay(free, []models.DynamicTask{bad})

	if len(diags) != 1 || diags[0].Reason != models.ReasonInvalidTask {
		t.Fatalf("diagnostics = %v, want one invalid task", diags)
	}
	assertEntries(t, got, []want{{models.EntryFree, "09:00", "10:00"}})
}

func TestOverlay_TasksPlacedInGivenOrder(t *testing.T) {
	s := New()
	cfg := testConfig("09:00", "11:00")
	free := s.Freetime(cfg, nil, nil)

	first := models.NewFlexibleDynamic(models.NewTask("First", ""), "2026-01-05", 30, models.Evening, false, 5)
	second := models.NewFlexibleDynamic(models.NewTask("Second", ""), "2026-01-05", 30, models.Morning, false, 1)

	got, _ := s.Overlay(free, []models.DynamicTask{first, second})

	if got[0].Dynamic.ID() != first.ID() || got[1].Dynamic.ID() != second.ID() {
		t.Errorf("tasks were not placed in the given order: %v", got)
	}
	assertCovers(t, got, cfg)
}
