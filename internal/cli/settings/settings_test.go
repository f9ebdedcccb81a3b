package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/models"
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

func ptr(s string) *string { return &s }

func TestSettingsShowCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings show failed: %v", err)
	}
	for _, want := range []string{"wake_time: 07:00", "bed_time:  22:00", "timezone:  Local"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSettingsSetCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)

	cmd := &SettingsSetCmd{WakeTime: ptr("06:30"), Timezone: ptr("Europe/Berlin")}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	cfg, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if cfg.WakeTime != models.Clock(6, 30) {
		t.Errorf("WakeTime = %s, want 06:30", cfg.WakeTime)
	}
	if cfg.BedTime != models.Clock(22, 0) {
		t.Errorf("BedTime should be unchanged, got %s", cfg.BedTime)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
}

func TestSettingsSetCmd_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		cmd         SettingsSetCmd
		validateErr bool
	}{
		{"nothing to set", SettingsSetCmd{}, true},
		{"bad timezone", SettingsSetCmd{Timezone: ptr("Mars/Olympus")}, true},
		{"wake after bed", SettingsSetCmd{WakeTime: ptr("23:00")}, false},
		{"malformed time", SettingsSetCmd{BedTime: ptr("late")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)
			err := tt.cmd.Validate()
			if tt.validateErr {
				if err == nil {
					t.Error("expected a validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected Run to fail")
			}
			cfg, _ := ctx.Store.GetSettings()
			if cfg != models.DefaultConfig() {
				t.Errorf("settings changed after a failed set: %+v", cfg)
			}
		})
	}
}
