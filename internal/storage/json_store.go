package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/planner"
)

const jsonStoreVersion = 1

type snapshot struct {
	Version int              `json:"version"`
	Planner *planner.Planner `json:"planner"`
}

// JSONStore keeps the whole planner in one human-readable file. It backs
// exports and small setups that do not want a database.
type JSONStore struct {
	path string
	data *snapshot
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Init writes a new file with an empty planner. Existing files are left alone.
func (s *JSONStore) Init(cfg models.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}
	s.data = &snapshot{Version: jsonStoreVersion, Planner: planner.New(cfg)}
	return s.write()
}

func (s *JSONStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'lunite init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	data := &snapshot{}
	if err := json.Unmarshal(raw, data); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if data.Version > jsonStoreVersion {
		return fmt.Errorf("storage file version (%d) is newer than supported version (%d)", data.Version, jsonStoreVersion)
	}
	if data.Planner == nil {
		data.Planner = planner.New(models.DefaultConfig())
	}
	s.data = data
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) loaded() error {
	if s.data == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *JSONStore) write() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Config, error) {
	if err := s.loaded(); err != nil {
		return models.Config{}, err
	}
	return s.data.Planner.Config, nil
}

func (s *JSONStore) SaveSettings(cfg models.Config) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.data.Planner.Config = cfg
	return s.write()
}

// LoadPlanner decodes a fresh copy so callers never share state with the store.
func (s *JSONStore) LoadPlanner(opts ...planner.Option) (*planner.Planner, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s.data.Planner)
	if err != nil {
		return nil, err
	}
	p := &planner.Planner{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	p.Attach(opts...)
	return p, nil
}

func (s *JSONStore) SavePlanner(p *planner.Planner) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	s.data.Planner = p
	return s.write()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
