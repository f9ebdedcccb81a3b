package storage

import (
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
)

// Provider persists a planner snapshot. Init creates the backing store and
// seeds its settings; every other method expects Init or Load to have run.
type Provider interface {
	// Lifecycle
	Init(models.Config) error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Config, error)
	SaveSettings(models.Config) error

	// Planner
	LoadPlanner(opts ...planner.Option) (*planner.Planner, error)
	SavePlanner(*planner.Planner) error

	// Utils
	GetConfigPath() string
}
