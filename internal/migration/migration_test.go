package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range m {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrations_SortedAndParsed(t *testing.T) {
	runner := NewRunner(openTestDB(t), files(map[string]string{
		"003_third.sql":  "CREATE TABLE c (id INTEGER);",
		"001_init.sql":   "CREATE TABLE a (id INTEGER);",
		"002_second.sql": "CREATE TABLE b (id INTEGER);",
		"README.md":      "ignored",
	}))

	migrations, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "second"}, {3, "third"}}
	if len(migrations) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(migrations))
	}
	for i, w := range want {
		if migrations[i].Version != w.version || migrations[i].Name != w.name {
			t.Errorf("migration %d = %d/%s, want %d/%s", i, migrations[i].Version, migrations[i].Name, w.version, w.name)
		}
	}
}

func TestMigrations_InvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"no underscore", map[string]string{"001.sql": "SELECT 1;"}, "invalid migration filename"},
		{"non numeric", map[string]string{"abc_init.sql": "SELECT 1;"}, "invalid version number"},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}, "invalid version number"},
		{"duplicate", map[string]string{"001_a.sql": "SELECT 1;", "01_b.sql": "SELECT 1;"}, "duplicate migration version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(openTestDB(t), files(tt.files)).Migrations()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestApply_FromScratchAndIdempotent(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_users.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}))

	var logs []string
	applied, err := runner.Apply(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}
	if len(logs) != 2 {
		t.Errorf("expected one log line per migration, got %v", logs)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("expected both tables to exist")
	}

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Current != 2 || st.Latest != 2 || st.Pending() != 0 {
		t.Errorf("unexpected status %+v", st)
	}

	applied, err = runner.Apply(nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no migrations on second run, got %d", applied)
	}
}

func TestApply_Incremental(t *testing.T) {
	db := openTestDB(t)
	fsys := files(map[string]string{"001_users.sql": "CREATE TABLE users (id INTEGER);"})
	if _, err := NewRunner(db, fsys).Apply(nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	fsys["002_users_name.sql"] = &fstest.MapFile{Data: []byte("ALTER TABLE users ADD COLUMN name TEXT;")}
	runner := NewRunner(db, fsys)
	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Pending() != 1 {
		t.Errorf("expected 1 pending migration, got %d", st.Pending())
	}

	applied, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied, got %d", applied)
	}
	if _, err := db.Exec("INSERT INTO users (id, name) VALUES (1, 'x')"); err != nil {
		t.Errorf("expected name column after migration: %v", err)
	}
}

func TestApply_RollsBackFailedMigration(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER); THIS IS NOT SQL;",
	}))

	applied, err := runner.Apply(nil)
	if err == nil {
		t.Fatal("expected an error from the broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before the failure, got %d", applied)
	}
	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1 after rollback, got %d", version)
	}
	if tableExists(t, db, "broken") {
		t.Error("broken migration should have been rolled back")
	}
}

func TestValidate_NewerDatabase(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{"001_init.sql": "CREATE TABLE a (id INTEGER);"}))
	if _, err := runner.CurrentVersion(); err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (9)"); err != nil {
		t.Fatalf("failed to seed version: %v", err)
	}

	if err := runner.Validate(); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("expected newer-schema error, got %v", err)
	}
	if _, err := runner.Apply(nil); err == nil {
		t.Error("Apply should refuse a newer database")
	}
}
