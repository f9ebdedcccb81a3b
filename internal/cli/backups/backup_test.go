package backups

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/lunite/internal/backup"
	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/storage"
	"github.com/julianstephens/lunite/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(models.DefaultConfig()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	out := &bytes.Buffer{}
	return &cli.Context{Store: store, ConfigDir: dir, Out: out}, out
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out := setupTestDB(t)

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	changed := models.Config{WakeTime: models.Clock(5, 0), BedTime: models.Clock(23, 0), Timezone: "UTC"}
	if err := ctx.Store.SaveSettings(changed); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %d (%v)", len(backups), err)
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Previous database saved as") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cfg, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if cfg != models.DefaultConfig() {
		t.Errorf("expected restored default settings, got %+v", cfg)
	}
}

func TestBackupRestore_Cancelled(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	backups, _ := backup.NewManager(ctx.Store.GetConfigPath()).List()

	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{BackupFile: backups[0].Path}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBackupRestore_NotFound(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&BackupRestoreCmd{BackupFile: "lunite-20000101-000000.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestBackup_RequiresSQLite(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "lunite.json"))
	ctx := &cli.Context{Store: store, Out: &bytes.Buffer{}}
	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("expected errNotSQLite, got %v", err)
	}
}
