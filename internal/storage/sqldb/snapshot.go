package sqldb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
)

// snapshotTables lists every table rewritten by SavePlanner.
var snapshotTables = []string{"static_tasks", "static_done", "day_refs", "dynamic_tasks", "dynamic_done"}

const dynamicColumns = "id, kind, date, priority, name, description, start_min, end_min, length_min, around, can_split"

// dynamicRow is the flattened column form of a models.DynamicTask.
type dynamicRow struct {
	ID          string
	Kind        string
	Date        string
	Priority    int
	Name        string
	Description string
	StartMin    int
	EndMin      int
	LengthMin   int
	Around      string
	CanSplit    int
}

func encodeDynamic(task models.DynamicTask) dynamicRow {
	t := task.Task()
	row := dynamicRow{
		ID:          t.ID,
		Kind:        string(task.Kind),
		Date:        task.Date,
		Priority:    task.Priority,
		Name:        t.Name,
		Description: t.Description,
	}
	switch {
	case task.Fixed != nil:
		row.StartMin = int(task.Fixed.Task.Time.Start)
		row.EndMin = int(task.Fixed.Task.Time.End)
	case task.Flexible != nil:
		row.LengthMin = task.Flexible.LengthMin
		row.Around = task.Flexible.Around.String()
		if task.Flexible.CanSplit {
			row.CanSplit = 1
		}
	}
	return row
}

func (r dynamicRow) args() []any {
	return []any{r.ID, r.Kind, r.Date, r.Priority, r.Name, r.Description, r.StartMin, r.EndMin, r.LengthMin, r.Around, r.CanSplit}
}

func (r *dynamicRow) dest() []any {
	return []any{&r.ID, &r.Kind, &r.Date, &r.Priority, &r.Name, &r.Description, &r.StartMin, &r.EndMin, &r.LengthMin, &r.Around, &r.CanSplit}
}

func (r dynamicRow) decode() (models.DynamicTask, error) {
	task := models.Task{ID: r.ID, Name: r.Name, Description: r.Description}
	switch models.DynamicKind(r.Kind) {
	case models.DynamicFixed:
		window := models.TimeRange{Start: models.TimeOfDay(r.StartMin), End: models.TimeOfDay(r.EndMin)}
		return models.NewFixedDynamic(models.StaticTask{Task: task, Time: window}, r.Date, r.Priority), nil
	case models.DynamicFlexible:
		around, err := models.ParsePartOfDay(r.Around)
		if err != nil {
			return models.DynamicTask{}, fmt.Errorf("task %s: %w", r.ID, err)
		}
		return models.NewFlexibleDynamic(task, r.Date, r.LengthMin, around, r.CanSplit != 0, r.Priority), nil
	default:
		return models.DynamicTask{}, fmt.Errorf("task %s: unknown dynamic task kind %q", r.ID, r.Kind)
	}
}

func parseDoneAt(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid completion timestamp %q: %w", s, err)
	}
	return t, nil
}

func checkDay(day int) error {
	if day < 0 || day >= constants.DaysPerWeek {
		return fmt.Errorf("%w: %d", planner.ErrDayOutOfRange, day)
	}
	return nil
}

// LoadPlanner rebuilds a planner from the stored snapshot.
func (db *DB) LoadPlanner(opts ...planner.Option) (*planner.Planner, error) {
	cfg, err := db.GetSettings()
	if err != nil {
		return nil, err
	}
	p := planner.New(cfg, opts...)

	if err := db.loadStatic(p); err != nil {
		return nil, err
	}
	if err := db.loadStaticDone(p); err != nil {
		return nil, err
	}
	if err := db.loadRefs(p); err != nil {
		return nil, err
	}
	if err := db.loadDynamic(p); err != nil {
		return nil, err
	}
	if err := db.loadDynamicDone(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (db *DB) loadStatic(p *planner.Planner) error {
	rows, err := db.conn.Query("SELECT day, id, name, description, start_min, end_min FROM static_tasks ORDER BY day, position")
	if err != nil {
		return fmt.Errorf("failed to query static tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day        int
			st         models.StaticTask
			start, end int
		)
		if err := rows.Scan(&day, &st.Task.ID, &st.Task.Name, &st.Task.Description, &start, &end); err != nil {
			return fmt.Errorf("failed to scan static task: %w", err)
		}
		if err := checkDay(day); err != nil {
			return err
		}
		st.Time = models.TimeRange{Start: models.TimeOfDay(start), End: models.TimeOfDay(end)}
		p.Days[day].StaticTasks = append(p.Days[day].StaticTasks, st)
	}
	return rows.Err()
}

func (db *DB) loadStaticDone(p *planner.Planner) error {
	rows, err := db.conn.Query("SELECT day, task_id, done_at FROM static_done ORDER BY day, position")
	if err != nil {
		return fmt.Errorf("failed to query static completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day            int
			taskID, doneAt string
		)
		if err := rows.Scan(&day, &taskID, &doneAt); err != nil {
			return fmt.Errorf("failed to scan static completion: %w", err)
		}
		if err := checkDay(day); err != nil {
			return err
		}
		at, err := parseDoneAt(doneAt)
		if err != nil {
			return err
		}
		p.Days[day].StaticDone = append(p.Days[day].StaticDone, planner.StaticCompletion{TaskID: taskID, DoneAt: at})
	}
	return rows.Err()
}

func (db *DB) loadRefs(p *planner.Planner) error {
	rows, err := db.conn.Query("SELECT day, task_id FROM day_refs ORDER BY day, position")
	if err != nil {
		return fmt.Errorf("failed to query day references: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day    int
			taskID string
		)
		if err := rows.Scan(&day, &taskID); err != nil {
			return fmt.Errorf("failed to scan day reference: %w", err)
		}
		if err := checkDay(day); err != nil {
			return err
		}
		p.Days[day].DynamicRefs = append(p.Days[day].DynamicRefs, taskID)
	}
	return rows.Err()
}

func (db *DB) loadDynamic(p *planner.Planner) error {
	rows, err := db.conn.Query("SELECT " + dynamicColumns + " FROM dynamic_tasks ORDER BY position")
	if err != nil {
		return fmt.Errorf("failed to query dynamic tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row dynamicRow
		if err := rows.Scan(row.dest()...); err != nil {
			return fmt.Errorf("failed to scan dynamic task: %w", err)
		}
		task, err := row.decode()
		if err != nil {
			return err
		}
		p.Dynamic = append(p.Dynamic, task)
	}
	return rows.Err()
}

func (db *DB) loadDynamicDone(p *planner.Planner) error {
	rows, err := db.conn.Query("SELECT " + dynamicColumns + ", done_at FROM dynamic_done ORDER BY position")
	if err != nil {
		return fmt.Errorf("failed to query dynamic completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row    dynamicRow
			doneAt string
		)
		if err := rows.Scan(append(row.dest(), &doneAt)...); err != nil {
			return fmt.Errorf("failed to scan dynamic completion: %w", err)
		}
		task, err := row.decode()
		if err != nil {
			return err
		}
		at, err := parseDoneAt(doneAt)
		if err != nil {
			return err
		}
		p.DynamicDone = append(p.DynamicDone, planner.DynamicCompletion{Task: task, DoneAt: at})
	}
	return rows.Err()
}

// SavePlanner replaces the stored snapshot with p in a single transaction.
func (db *DB) SavePlanner(p *planner.Planner) error {
	if err := db.check(); err != nil {
		return err
	}
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range snapshotTables {
		if err := db.exec(tx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := db.writeSettings(tx, p.Config); err != nil {
		return err
	}
	if err := db.writeDays(tx, p); err != nil {
		return err
	}
	if err := db.writeDynamic(tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func (db *DB) writeDays(tx *sql.Tx, p *planner.Planner) error {
	for day, d := range p.Days {
		for pos, st := range d.StaticTasks {
			err := db.exec(tx,
				"INSERT INTO static_tasks (id, day, position, name, description, start_min, end_min) VALUES (?, ?, ?, ?, ?, ?, ?)",
				st.Task.ID, day, pos, st.Task.Name, st.Task.Description, int(st.Time.Start), int(st.Time.End))
			if err != nil {
				return fmt.Errorf("failed to save static task %s: %w", st.Task.ID, err)
			}
		}
		for pos, c := range d.StaticDone {
			err := db.exec(tx,
				"INSERT INTO static_done (day, position, task_id, done_at) VALUES (?, ?, ?, ?)",
				day, pos, c.TaskID, c.DoneAt.Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("failed to save static completion: %w", err)
			}
		}
		for pos, id := range d.DynamicRefs {
			if err := db.exec(tx, "INSERT INTO day_refs (day, position, task_id) VALUES (?, ?, ?)", day, pos, id); err != nil {
				return fmt.Errorf("failed to save day reference: %w", err)
			}
		}
	}
	return nil
}

func (db *DB) writeDynamic(tx *sql.Tx, p *planner.Planner) error {
	for pos, task := range p.Dynamic {
		args := append([]any{pos}, encodeDynamic(task).args()...)
		err := db.exec(tx,
			"INSERT INTO dynamic_tasks (position, "+dynamicColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args...)
		if err != nil {
			return fmt.Errorf("failed to save dynamic task %s: %w", task.ID(), err)
		}
	}
	for pos, c := range p.DynamicDone {
		args := append([]any{pos}, encodeDynamic(c.Task).args()...)
		args = append(args, c.DoneAt.Format(time.RFC3339Nano))
		err := db.exec(tx,
			"INSERT INTO dynamic_done (position, "+dynamicColumns+", done_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args...)
		if err != nil {
			return fmt.Errorf("failed to save dynamic completion %s: %w", c.Task.ID(), err)
		}
	}
	return nil
}
