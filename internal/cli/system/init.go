package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/config"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/storage"
	"github.com/julianstephens/lunite/internal/storage/postgres"
	"github.com/julianstephens/lunite/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing SQLite or JSON store before initializing."`
	Source string `help:"Storage path or connection string to copy an existing planner from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	cfg := models.DefaultConfig()
	if ctx.Config != nil {
		pc, err := ctx.Config.Planner()
		if err != nil {
			return err
		}
		cfg = pc
	}

	if err := ctx.Store.Init(cfg); err != nil {
		return err
	}
	logger.Info("storage initialized", "path", ctx.Store.GetConfigPath())
	ctx.Printf("Initialized lunite storage at: %s\n", ctx.Store.GetConfigPath())

	if err := writeStarterConfig(ctx); err != nil {
		return err
	}

	if c.Source != "" {
		ctx.Printf("Copying planner from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("✓ Planner copied successfully!")
	}
	return nil
}

// reset deletes the backing file of a local store.
func (c *InitCmd) reset(ctx *cli.Context) error {
	var path string
	switch ctx.Store.(type) {
	case *sqlite.Store, *storage.JSONStore:
		path = ctx.Store.GetConfigPath()
	default:
		return errors.New("--force is only supported for SQLite and JSON storage")
	}

	if c.Source != "" {
		absPath, _ := filepath.Abs(path)
		absSource, _ := filepath.Abs(c.Source)
		if absPath == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing storage: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete existing storage: %w", err)
	}
	logger.Warn("deleted existing storage", "path", path)
	ctx.Printf("Deleted existing storage at: %s\n", path)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	if postgres.IsConnString(c.Source) {
		if err := postgres.ValidateConnString(c.Source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return errors.New("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
	}

	source := storage.Open(c.Source)
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer source.Close()

	p, err := source.LoadPlanner(ctx.PlannerOptions...)
	if err != nil {
		return fmt.Errorf("failed to read planner from source: %w", err)
	}
	if err := ctx.Store.SavePlanner(p); err != nil {
		return fmt.Errorf("failed to save planner to destination: %w", err)
	}

	statics := 0
	for _, d := range p.Days {
		statics += len(d.StaticTasks)
	}
	ctx.Printf("  Copied %d static tasks and %d dynamic tasks\n", statics, len(p.Dynamic))
	return nil
}

// writeStarterConfig creates lunite.toml from the effective settings when the
// config file named on the command line does not exist yet.
func writeStarterConfig(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.ConfigFile == "" || ctx.Config.Path != "" {
		return nil
	}
	if _, err := os.Stat(ctx.ConfigFile); err == nil {
		return nil
	}
	if err := config.Write(ctx.ConfigFile, ctx.Config.File); err != nil {
		return err
	}
	ctx.Printf("Wrote config file: %s\n", ctx.ConfigFile)
	return nil
}
