package sqldb

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/lunite/internal/migration"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
	"github.com/julianstephens/lunite/migrations"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "lunite.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("failed to access migrations: %v", err)
	}
	if _, err := migration.NewRunner(conn, sub).Apply(nil); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	return New(conn, SQLite)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{SQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{Postgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{Postgres, "DELETE FROM t", "DELETE FROM t"},
	}
	for _, tt := range tests {
		if got := tt.dialect.Rebind(tt.in); got != tt.want {
			t.Errorf("%s.Rebind(%q) = %q, want %q", tt.dialect, tt.in, got, tt.want)
		}
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetSettings(); !errors.Is(err, ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound on a fresh database, got %v", err)
	}

	cfg := models.Config{WakeTime: models.Clock(6, 30), BedTime: models.Clock(23, 0), Timezone: "UTC"}
	if err := db.SaveSettings(cfg); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := db.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != cfg {
		t.Errorf("GetSettings = %+v, want %+v", got, cfg)
	}

	bad := models.Config{WakeTime: models.Clock(22, 0), BedTime: models.Clock(7, 0), Timezone: "UTC"}
	if err := db.SaveSettings(bad); err == nil {
		t.Error("expected SaveSettings to reject wake time after bed time")
	}
}

func TestNotLoaded(t *testing.T) {
	var db *DB
	if _, err := db.LoadPlanner(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if err := New(nil, SQLite).SavePlanner(planner.New(models.DefaultConfig())); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestPlannerRoundTrip(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	cfg := models.Config{WakeTime: models.Clock(8, 0), BedTime: models.Clock(21, 0), Timezone: "UTC"}
	p := planner.New(cfg, planner.WithClock(func() time.Time { return now }))

	gym, _ := models.NewStaticTask("Gym", "legs", models.TimeRange{Start: models.Clock(8, 0), End: models.Clock(10, 0)})
	standup, _ := models.NewStaticTask("Standup", "", models.TimeRange{Start: models.Clock(11, 0), End: models.Clock(12, 0)})
	if err := p.AddStatic(2, standup); err != nil {
		t.Fatal(err)
	}
	if err := p.AddStatic(2, gym); err != nil {
		t.Fatal(err)
	}
	if err := p.CompleteStatic(2, 0); err != nil {
		t.Fatal(err)
	}

	appt, _ := models.NewStaticTask("Dentist", "", models.TimeRange{Start: models.Clock(14, 0), End: models.Clock(15, 0)})
	fixed := models.NewFixedDynamic(appt, "2026-01-07", 1)
	window := models.TimeRange{Start: models.Clock(16, 0), End: models.Clock(18, 0)}
	reading := models.NewFlexibleDynamic(models.NewTask("Read", "novel"), "2026-01-09", 90, models.FixedPart(window), true, 2)
	email := models.NewFlexibleDynamic(models.NewTask("Email", ""), "2026-01-07", 20, models.Morning, false, 3)
	for _, task := range []models.DynamicTask{fixed, reading, email} {
		if err := p.AddDynamic(task); err != nil {
			t.Fatalf("AddDynamic failed: %v", err)
		}
	}
	if _, err := p.CompleteDynamic(0); err != nil {
		t.Fatalf("CompleteDynamic failed: %v", err)
	}

	if err := db.SavePlanner(p); err != nil {
		t.Fatalf("SavePlanner failed: %v", err)
	}
	got, err := db.LoadPlanner(planner.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("LoadPlanner failed: %v", err)
	}

	if got.Config != cfg {
		t.Errorf("config = %+v, want %+v", got.Config, cfg)
	}
	statics := got.Days[2].StaticTasks
	if len(statics) != 2 || statics[0] != gym || statics[1] != standup {
		t.Errorf("static tasks = %+v", statics)
	}
	if len(got.Days[2].StaticDone) != 1 || got.Days[2].StaticDone[0].TaskID != gym.Task.ID || !got.Days[2].StaticDone[0].DoneAt.Equal(now) {
		t.Errorf("static completions = %+v", got.Days[2].StaticDone)
	}

	if len(got.Dynamic) != len(p.Dynamic) {
		t.Fatalf("pending = %d, want %d", len(got.Dynamic), len(p.Dynamic))
	}
	for i := range p.Dynamic {
		if got.Dynamic[i].Describe() != p.Dynamic[i].Describe() || got.Dynamic[i].ID() != p.Dynamic[i].ID() {
			t.Errorf("pending[%d] = %s, want %s", i, got.Dynamic[i].Describe(), p.Dynamic[i].Describe())
		}
	}
	for day := range p.Days {
		want, have := p.Days[day].DynamicRefs, got.Days[day].DynamicRefs
		if len(want) != len(have) {
			t.Errorf("day %d refs = %v, want %v", day, have, want)
			continue
		}
		for i := range want {
			if want[i] != have[i] {
				t.Errorf("day %d refs = %v, want %v", day, have, want)
			}
		}
	}
	if len(got.DynamicDone) != 1 || got.DynamicDone[0].Task.ID() != p.DynamicDone[0].Task.ID() {
		t.Errorf("dynamic done = %+v", got.DynamicDone)
	}

	schedule, diags, err := got.GetScheduleWithDynamics(2)
	if err != nil {
		t.Fatalf("GetScheduleWithDynamics failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(schedule) == 0 {
		t.Error("expected a schedule for the loaded planner")
	}
}

func TestSavePlannerReplacesSnapshot(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	cfg := models.Config{WakeTime: models.Clock(8, 0), BedTime: models.Clock(21, 0), Timezone: "UTC"}
	p := planner.New(cfg, planner.WithClock(func() time.Time { return now }))

	gym, _ := models.NewStaticTask("Gym", "", models.TimeRange{Start: models.Clock(8, 0), End: models.Clock(10, 0)})
	_ = p.AddStatic(0, gym)
	if err := db.SavePlanner(p); err != nil {
		t.Fatalf("SavePlanner failed: %v", err)
	}

	if _, err := p.RemoveStatic(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := db.SavePlanner(p); err != nil {
		t.Fatalf("second SavePlanner failed: %v", err)
	}

	got, err := db.LoadPlanner()
	if err != nil {
		t.Fatalf("LoadPlanner failed: %v", err)
	}
	if len(got.Days[0].StaticTasks) != 0 {
		t.Errorf("expected removed task to be gone, got %+v", got.Days[0].StaticTasks)
	}
}
