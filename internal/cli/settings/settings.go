package settings

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lunite/internal/cli"
	"github.com/julianstephens/lunite/internal/logger"
	"github.com/julianstephens/lunite/internal/models"
	"github.com/julianstephens/lunite/internal/utils"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	ctx.Println("Current settings:")
	ctx.Printf("  wake_time: %s\n", cfg.WakeTime)
	ctx.Printf("  bed_time:  %s\n", cfg.BedTime)
	ctx.Printf("  timezone:  %s\n", cfg.Timezone)
	ctx.Printf("  storage:   %s\n", ctx.Store.GetConfigPath())
	return nil
}

type SettingsSetCmd struct {
	WakeTime *string `help:"Start of the schedulable day (HH:MM)."`
	BedTime  *string `help:"End of the schedulable day (HH:MM)."`
	Timezone *string `help:"IANA timezone name, or Local."`
}

func (c *SettingsSetCmd) Validate() error {
	if c.WakeTime == nil && c.BedTime == nil && c.Timezone == nil {
		return errors.New("nothing to set: pass --wake-time, --bed-time or --timezone")
	}
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone %q", *c.Timezone)
	}
	return nil
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	cfg, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.WakeTime != nil {
		if cfg.WakeTime, err = models.ParseTimeOfDay(*c.WakeTime); err != nil {
			return fmt.Errorf("wake time: %w", err)
		}
	}
	if c.BedTime != nil {
		if cfg.BedTime, err = models.ParseTimeOfDay(*c.BedTime); err != nil {
			return fmt.Errorf("bed time: %w", err)
		}
	}
	if c.Timezone != nil {
		cfg.Timezone = *c.Timezone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.SaveSettings(cfg); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logger.Info("settings updated", "wake_time", cfg.WakeTime.String(), "bed_time", cfg.BedTime.String(), "timezone", cfg.Timezone)
	ctx.Println("✓ Settings updated")
	return nil
}
