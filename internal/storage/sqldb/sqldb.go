// Package sqldb reads and writes a planner snapshot over database/sql. The
// SQLite and Postgres stores share it and differ only in driver and placeholders.
package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/lunite/internal/models"
)

var (
	ErrNotLoaded        = errors.New("storage not loaded")
	ErrSettingsNotFound = errors.New("settings not found")
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Rebind rewrites ? placeholders to $n for Postgres.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DB is a connection paired with its dialect.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

func New(conn *sql.DB, dialect Dialect) *DB {
	return &DB{conn: conn, dialect: dialect}
}

func (db *DB) Conn() *sql.DB {
	if db == nil {
		return nil
	}
	return db.conn
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) check() error {
	if db == nil || db.conn == nil {
		return ErrNotLoaded
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (db *DB) exec(e execer, query string, args ...any) error {
	_, err := e.Exec(db.dialect.Rebind(query), args...)
	return err
}

// GetSettings reads the wake/bed/timezone settings.
func (db *DB) GetSettings() (models.Config, error) {
	if err := db.check(); err != nil {
		return models.Config{}, err
	}
	rows, err := db.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Config{}, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Config{}, fmt.Errorf("failed to scan setting: %w", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Config{}, err
	}
	if len(data) == 0 {
		return models.Config{}, ErrSettingsNotFound
	}
	return models.MapToConfig(data)
}

// SaveSettings replaces the stored settings.
func (db *DB) SaveSettings(cfg models.Config) error {
	if err := db.check(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := db.writeSettings(tx, cfg); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) writeSettings(e execer, cfg models.Config) error {
	if err := db.exec(e, "DELETE FROM settings"); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	for key, value := range models.ConfigToMap(cfg) {
		if err := db.exec(e, "INSERT INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return nil
}
