package utils

import (
	"path/filepath"
	"testing"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		today   int
		want    int
		wantErr bool
	}{
		{"0", 3, 0, false},
		{"6", 3, 6, false},
		{"monday", 3, 0, false},
		{"Wed", 0, 2, false},
		{" SUNDAY ", 0, 6, false},
		{"today", 4, 4, false},
		{"", 4, 4, false},
		{"tomorrow", 6, 0, false},
		{"7", 0, 0, true},
		{"-1", 0, 0, true},
		{"someday", 0, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDay(tt.in, tt.today)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDay(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDayName(t *testing.T) {
	if DayName(0) != "Monday" || DayName(6) != "Sunday" {
		t.Errorf("unexpected day names: %s, %s", DayName(0), DayName(6))
	}
	if ShortDayName(2) != "Wed" {
		t.Errorf("ShortDayName(2) = %s", ShortDayName(2))
	}
	if DayName(9) != "day 9" {
		t.Errorf("DayName(9) = %s", DayName(9))
	}
}

func TestValidateTimezone(t *testing.T) {
	for tz, want := range map[string]bool{"": true, "Local": true, "UTC": true, "Not/AZone": false} {
		if got := ValidateTimezone(tz); got != want {
			t.Errorf("ValidateTimezone(%q) = %v, want %v", tz, got, want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/.config/lunite/lunite.db")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if want := filepath.Join(home, ".config/lunite/lunite.db"); got != want {
		t.Errorf("ExpandPath = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got, _ := ExpandPath("postgres://h/db"); got != "postgres://h/db" {
		t.Errorf("connection string changed: %q", got)
	}
}
