package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/migration"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
	"github.com/julianstephens/lunite/internal/storage/sqldb"
	"github.com/julianstephens/lunite/migrations"
)

// Store keeps the planner in a single SQLite file.
type Store struct {
	path string
	db   *sqldb.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() error {
	conn, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY between the store and backups.
	conn.SetMaxOpenConns(1)
	s.db = sqldb.New(conn, sqldb.SQLite)
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db.Conn(), sub), nil
}

// Init creates the database file, applies migrations and seeds settings with
// cfg unless settings already exist.
func (s *Store) Init(cfg models.Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(func(msg string) { logger.Info(msg, "store", "sqlite") }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.db.GetSettings(); errors.Is(err, sqldb.ErrSettingsNotFound) {
		if err := s.db.SaveSettings(cfg); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	} else if err != nil {
		return err
	}
	return nil
}

// Load opens an initialized database and checks its schema version.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'lunite init' first")
	}
	if err := s.open(); err != nil {
		return err
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Validate()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Conn().Close()
	s.db = nil
	return err
}

func (s *Store) GetSettings() (models.Config, error) {
	return s.db.GetSettings()
}

func (s *Store) SaveSettings(cfg models.Config) error {
	return s.db.SaveSettings(cfg)
}

func (s *Store) LoadPlanner(opts ...planner.Option) (*planner.Planner, error) {
	return s.db.LoadPlanner(opts...)
}

func (s *Store) SavePlanner(p *planner.Planner) error {
	return s.db.SavePlanner(p)
}

func (s *Store) MigrationStatus() (migration.Status, error) {
	if s.db == nil {
		return migration.Status{}, sqldb.ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the open connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db.Conn()
}
