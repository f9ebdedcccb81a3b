package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/lunite/internal/backup"
	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/keyring"
	"github.com/julianstephens/lunite/internal/migration"
	"github.com/julianstephens/lunite/internal/storage/sqlite"
	"github.com/julianstephens/lunite/internal/utils"
	"github.com/julianstephens/lunite/internal/validation"
)

// errSkipped marks a check that does not apply to the current storage backend.
var errSkipped = errors.New("not applicable")

type migrationStatuser interface {
	MigrationStatus() (migration.Status, error)
}

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Data validation", run: checkValidation, needsDB: true},
		{name: "Clock/timezone", run: checkClockTimezone, needsDB: true},
		{name: "OS keyring", run: checkKeyring, warnOnly: true},
	}

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Storage reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Storage reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func migrationStatus(ctx *cli.Context) (migration.Status, error) {
	ms, ok := ctx.Store.(migrationStatuser)
	if !ok {
		return migration.Status{}, fmt.Errorf("%w: storage has no schema", errSkipped)
	}
	return ms.MigrationStatus()
}

func checkSchemaVersion(ctx *cli.Context) error {
	st, err := migrationStatus(ctx)
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	st, err := migrationStatus(ctx)
	if err != nil {
		return err
	}
	if n := st.Pending(); n > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'lunite init')", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("%w: backups are only kept for SQLite storage", errSkipped)
	}
	backups, err := backup.NewManager(store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'lunite backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}
	result := validation.New().Validate(p)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'lunite validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	cfg, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !utils.ValidateTimezone(cfg.Timezone) {
		return fmt.Errorf("invalid timezone %q in settings", cfg.Timezone)
	}
	if time.Now().Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", time.Now().Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; Postgres credentials must come from LUNITE_DB_CONNECTION or .pgpass")
	}
	return nil
}
