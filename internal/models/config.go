package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/lunite/internal/constants"
)

// Config bounds the schedulable window of every day.
type Config struct {
	WakeTime TimeOfDay `json:"wake_time"` // the time the day starts, e.g. "07:00"
	BedTime  TimeOfDay `json:"bed_time"`  // the time the day ends, e.g. "22:00"
	Timezone string    `json:"timezone"`  // IANA timezone name, or "Local" for the system timezone
}

// DefaultConfig returns the built-in wake/bed window.
func DefaultConfig() Config {
	wake, _ := ParseTimeOfDay(constants.DefaultWakeTime)
	bed, _ := ParseTimeOfDay(constants.DefaultBedTime)
	return Config{WakeTime: wake, BedTime: bed, Timezone: constants.DefaultTimezone}
}

func (c Config) Validate() error {
	if _, err := NewTimeRange(c.WakeTime, c.BedTime); err != nil {
		return fmt.Errorf("wake time must be before bed time: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Window is the schedulable range [WakeTime, BedTime).
func (c Config) Window() TimeRange {
	return TimeRange{Start: c.WakeTime, End: c.BedTime}
}

// Location resolves Timezone; empty or "Local" means the system timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MapToConfig converts stored key-value settings into a Config, keeping defaults for missing keys.
func MapToConfig(data map[string]string) (Config, error) {
	cfg := DefaultConfig()
	for key, value := range data {
		switch key {
		case constants.SettingWakeTime:
			t, err := ParseTimeOfDay(value)
			if err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			cfg.WakeTime = t
		case constants.SettingBedTime:
			t, err := ParseTimeOfDay(value)
			if err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			cfg.BedTime = t
		case constants.SettingTimezone:
			cfg.Timezone = value
		}
	}
	return cfg, nil
}

// ConfigToMap converts a Config to key-value settings.
func ConfigToMap(cfg Config) map[string]string {
	return map[string]string{
		constants.SettingWakeTime: cfg.WakeTime.String(),
		constants.SettingBedTime:  cfg.BedTime.String(),
		constants.SettingTimezone: cfg.Timezone,
	}
}
