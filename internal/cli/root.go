package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/lunite/internal/backup"
	"github.com/julianstephens/lunite/internal/config"
	"github.com/julianstephens/lunite/internal/lock"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/planner"
	"github.com/julianstephens/lunite/internal/storage"
	"github.com/julianstephens/lunite/internal/storage/sqlite"
)

// Context is handed to every command's Run method.
type Context struct {
	Store storage.Provider
	// Config is the loaded lunite.toml; nil in tests that don't need it.
	Config *config.Config
	// ConfigFile is the lunite.toml path in effect, whether or not it exists.
	ConfigFile string
	// ConfigDir holds the lockfile. Locking is skipped when it is empty.
	ConfigDir string
	// PlannerOptions are applied to every planner loaded from the store.
	PlannerOptions []planner.Option
	Out            io.Writer
	In             io.Reader
}

func (ctx *Context) Stdout() io.Writer {
	if ctx.Out == nil {
		return os.Stdout
	}
	return ctx.Out
}

func (ctx *Context) Stdin() io.Reader {
	if ctx.In == nil {
		return os.Stdin
	}
	return ctx.In
}

func (ctx *Context) Printf(format string, args ...any) {
	fmt.Fprintf(ctx.Stdout(), format, args...)
}

func (ctx *Context) Println(args ...any) {
	fmt.Fprintln(ctx.Stdout(), args...)
}

// LoadPlanner reads the planner from the store and rolls it over to today.
func (ctx *Context) LoadPlanner() (*planner.Planner, error) {
	p, err := ctx.Store.LoadPlanner(ctx.PlannerOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load planner: %w", err)
	}
	if n := p.Rollover(); n > 0 {
		logger.Debug("dropped expired static completions", "count", n)
	}
	return p, nil
}

// Mutate runs fn against a freshly loaded planner and saves the result. The
// process lock is held for the whole read-modify-write, and SQLite stores are
// backed up before anything is written. Nothing is saved if fn fails.
func (ctx *Context) Mutate(fn func(p *planner.Planner) error) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	ctx.PerformAutomaticBackup()

	p, err := ctx.LoadPlanner()
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	if err := ctx.Store.SavePlanner(p); err != nil {
		return fmt.Errorf("failed to save planner: %w", err)
	}
	return nil
}

// Lock takes the process lock in ConfigDir and returns its release func.
func (ctx *Context) Lock() (func(), error) {
	if ctx.ConfigDir == "" {
		return func() {}, nil
	}
	l, err := lock.Acquire(ctx.ConfigDir)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := l.Release(); err != nil {
			logger.Warn("failed to release lock", "error", err)
		}
	}, nil
}

// PerformAutomaticBackup creates a rotating backup of a SQLite store.
// Failures are logged and otherwise ignored.
func (ctx *Context) PerformAutomaticBackup() {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return
	}
	if _, err := os.Stat(store.GetConfigPath()); err != nil {
		return
	}
	path, err := backup.NewManager(store.GetConfigPath()).Create()
	if err != nil {
		logger.Warn("automatic backup failed", "error", err)
		return
	}
	logger.Debug("automatic backup created", "path", path)
}

func (ctx *Context) Print(args ...any) {
	fmt.Fprint(ctx.Stdout(), args...)
}
