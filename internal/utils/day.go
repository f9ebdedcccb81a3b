package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName returns the weekday name of a day index (0 = Monday).
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return fmt.Sprintf("day %d", day)
	}
	return dayNames[day]
}

// ShortDayName returns the three-letter weekday name of a day index.
func ShortDayName(day int) string {
	return DayName(day)[:3]
}

// ParseDay accepts a day index 0-6 (Monday first), a full or three-letter
// weekday name, or "today" (resolved against today's index).
func ParseDay(s string, today int) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "today" || s == "" {
		return today, nil
	}
	if s == "tomorrow" {
		return (today + 1) % len(dayNames), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(dayNames) {
			return 0, fmt.Errorf("invalid day %q: index must be 0 (Monday) to 6 (Sunday)", s)
		}
		return n, nil
	}
	for i, name := range dayNames {
		lower := strings.ToLower(name)
		if s == lower || s == lower[:3] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid day %q: use a weekday name, 0-6 or today", s)
}

// ValidateTimezone reports whether tz is "Local", empty, or a loadable IANA name.
func ValidateTimezone(tz string) bool {
	if tz == "" || tz == "Local" {
		return true
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}
