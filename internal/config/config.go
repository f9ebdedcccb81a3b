// Package config loads lunite.toml and its environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/lunite/internal/constants"
	"github.com/julianstephens/lunite/internal/keyring"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/utils"
)

// StorageKeyring is a storage value meaning "read the Postgres connection
// string from LUNITE_DB_CONNECTION or the OS keyring".
const StorageKeyring = "keyring"

// File mirrors lunite.toml.
type File struct {
	// Storage is a SQLite path, a *.json path, a Postgres connection string
	// without a password, or "keyring".
	Storage  string `toml:"storage"`
	Debug    bool   `toml:"debug"`
	WakeTime string `toml:"wake_time"`
	BedTime  string `toml:"bed_time"`
	Timezone string `toml:"timezone"`
}

func Default() File {
	return File{
		Storage:  constants.DefaultStoragePath,
		WakeTime: constants.DefaultWakeTime,
		BedTime:  constants.DefaultBedTime,
		Timezone: constants.DefaultTimezone,
	}
}

type Config struct {
	File
	// Path is the file that was read, empty when none existed.
	Path string
	// Unknown lists keys in the file that lunite does not recognise.
	Unknown []string
}

// DefaultPath is ~/.config/lunite/lunite.toml.
func DefaultPath() (string, error) {
	return utils.ExpandPath(filepath.Join(constants.DefaultConfigDir, constants.ConfigFileName))
}

// Load applies, in order: defaults, the TOML file at path (a missing file is
// fine), then LUNITE_STORAGE and LUNITE_DEBUG.
func Load(path string) (*Config, error) {
	cfg := &Config{File: Default()}

	if path != "" {
		expanded, err := utils.ExpandPath(path)
		if err != nil {
			return nil, err
		}
		meta, err := toml.DecodeFile(expanded, &cfg.File)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("loading config file %s: %w", expanded, err)
		default:
			cfg.Path = expanded
			for _, key := range meta.Undecoded() {
				cfg.Unknown = append(cfg.Unknown, key.String())
			}
		}
	}

	loadFromEnv(&cfg.File)

	if _, err := cfg.Planner(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(f *File) {
	if v := os.Getenv(constants.EnvStorage); v != "" {
		f.Storage = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		f.Debug = boolFromString(v)
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Planner converts the wake/bed/timezone values used to seed a new store.
func (c *Config) Planner() (models.Config, error) {
	wake, err := models.ParseTimeOfDay(c.WakeTime)
	if err != nil {
		return models.Config{}, fmt.Errorf("config wake_time: %w", err)
	}
	bed, err := models.ParseTimeOfDay(c.BedTime)
	if err != nil {
		return models.Config{}, fmt.Errorf("config bed_time: %w", err)
	}
	pc := models.Config{WakeTime: wake, BedTime: bed, Timezone: c.Timezone}
	if err := pc.Validate(); err != nil {
		return models.Config{}, fmt.Errorf("config: %w", err)
	}
	return pc, nil
}

// ResolveStorage turns a storage value into something storage.Open accepts:
// paths get ~ expanded and "keyring" is replaced by the stored connection string.
func ResolveStorage(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		target = constants.DefaultStoragePath
	}
	if target != StorageKeyring {
		return utils.ExpandPath(target)
	}
	if v := os.Getenv(constants.EnvDBConnection); v != "" {
		return v, nil
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		return "", fmt.Errorf("storage is %q but no connection string is available: %w (set %s or run 'lunite keyring set')",
			StorageKeyring, err, constants.EnvDBConnection)
	}
	return connStr, nil
}

// Dir is where logs and the lock file live: the directory of the config file
// when one was read, otherwise ~/.config/lunite.
func (c *Config) Dir() (string, error) {
	if c.Path != "" {
		return filepath.Dir(c.Path), nil
	}
	return utils.ExpandPath(constants.DefaultConfigDir)
}

// Write creates a config file at path. It refuses to overwrite an existing file.
func Write(path string, f File) error {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	out, err := os.OpenFile(expanded, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if err := toml.NewEncoder(out).Encode(f); err != nil {
		out.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return out.Close()
}
