package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lunite/internal/constants"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidTimeRange = errors.New("time range start must be before end")
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// 24:00 is allowed so that a range can end at the end of the day.
type TimeOfDay int

// Clock builds a TimeOfDay from hours and minutes.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses an HH:MM string. "24:00" is accepted as end of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return TimeOfDay(constants.DayEnd), nil
	}
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidTimeOfDay, s)
	}
	return Clock(t.Hour(), t.Minute()), nil
}

// TimeOfDayFrom returns the wall-clock part of t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return Clock(t.Hour(), t.Minute())
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= constants.DayEnd
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidTimeOfDay, int(t))
	}
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Add returns t shifted by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// TimeRange is a half-open wall-clock interval [Start, End) within one day.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// NewTimeRange validates and builds a range. Wraparound past midnight is not supported.
func NewTimeRange(start, end TimeOfDay) (TimeRange, error) {
	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// ParseTimeRange parses "HH:MM-HH:MM".
func ParseTimeRange(s string) (TimeRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("invalid time range %q (expected HH:MM-HH:MM)", s)
	}
	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(start, end)
}

func (r TimeRange) Validate() error {
	if !r.Start.Valid() || !r.End.Valid() {
		return fmt.Errorf("%w: %d-%d", ErrInvalidTimeOfDay, int(r.Start), int(r.End))
	}
	if r.Start >= r.End {
		return fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, r.Start, r.End)
	}
	return nil
}

// DurationMin returns the length of the range in minutes.
func (r TimeRange) DurationMin() int {
	return int(r.End - r.Start)
}

// Overlaps reports whether the two half-open ranges share any instant.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Within reports whether r lies entirely inside other. Equal ranges are within each other.
func (r TimeRange) Within(other TimeRange) bool {
	return other.Start <= r.Start && r.End <= other.End
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}
