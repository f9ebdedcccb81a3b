package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/lunite/internal/constants"
)

// ErrAlreadyFixed is returned when converting a Fixed part of day; it has no named window.
var ErrAlreadyFixed = errors.New("part of day is already fixed")

type PartKind string

const (
	PartMorning   PartKind = "morning"
	PartAfternoon PartKind = "afternoon"
	PartEvening   PartKind = "evening"
	PartNight     PartKind = "night"
	PartFixed     PartKind = "fixed"
)

// PartOfDay is a preferred placement hint for flexible tasks. Window is set only for PartFixed.
type PartOfDay struct {
	Kind   PartKind   `json:"kind"`
	Window *TimeRange `json:"window,omitempty"`
}

var (
	Morning   = PartOfDay{Kind: PartMorning}
	Afternoon = PartOfDay{Kind: PartAfternoon}
	Evening   = PartOfDay{Kind: PartEvening}
	Night     = PartOfDay{Kind: PartNight}
)

func FixedPart(window TimeRange) PartOfDay {
	w := window
	return PartOfDay{Kind: PartFixed, Window: &w}
}

// ParsePartOfDay accepts a named part or an explicit HH:MM-HH:MM window.
func ParsePartOfDay(s string) (PartOfDay, error) {
	switch PartKind(strings.ToLower(strings.TrimSpace(s))) {
	case PartMorning:
		return Morning, nil
	case PartAfternoon:
		return Afternoon, nil
	case PartEvening:
		return Evening, nil
	case PartNight:
		return Night, nil
	}
	window, err := ParseTimeRange(s)
	if err != nil {
		return PartOfDay{}, fmt.Errorf("invalid part of day %q: expected morning|afternoon|evening|night or HH:MM-HH:MM", s)
	}
	return FixedPart(window), nil
}

// ToFixed converts a named part to its canonical window.
func (p PartOfDay) ToFixed() (PartOfDay, error) {
	var start, end int
	switch p.Kind {
	case PartMorning:
		start, end = constants.MorningStart, constants.AfternoonStart
	case PartAfternoon:
		start, end = constants.AfternoonStart, constants.EveningStart
	case PartEvening:
		start, end = constants.EveningStart, constants.NightStart
	case PartNight:
		start, end = constants.NightStart, constants.DayEnd
	case PartFixed:
		return PartOfDay{}, ErrAlreadyFixed
	default:
		return PartOfDay{}, fmt.Errorf("unknown part of day: %q", p.Kind)
	}
	return FixedPart(TimeRange{Start: TimeOfDay(start), End: TimeOfDay(end)}), nil
}

// Range returns the concrete window the part stands for.
func (p PartOfDay) Range() (TimeRange, error) {
	if p.Kind == PartFixed {
		if p.Window == nil {
			return TimeRange{}, errors.New("fixed part of day has no window")
		}
		return *p.Window, nil
	}
	fixed, err := p.ToFixed()
	if err != nil {
		return TimeRange{}, err
	}
	return *fixed.Window, nil
}

func (p PartOfDay) Validate() error {
	if p.Kind == PartFixed {
		if p.Window == nil {
			return errors.New("fixed part of day has no window")
		}
		return p.Window.Validate()
	}
	_, err := p.ToFixed()
	return err
}

func (p PartOfDay) String() string {
	if p.Kind == PartFixed && p.Window != nil {
		return p.Window.String()
	}
	return string(p.Kind)
}

// rank gives the sort position of a part: named parts in daily order, then fixed windows.
func (p PartOfDay) rank() int {
	switch p.Kind {
	case PartMorning:
		return 0
	case PartAfternoon:
		return 1
	case PartEvening:
		return 2
	case PartNight:
		return 3
	default:
		return 4
	}
}

// ComparePartOfDay orders parts Morning < Afternoon < Evening < Night < Fixed,
// with fixed windows ordered by start then end.
func ComparePartOfDay(a, b PartOfDay) int {
	if ra, rb := a.rank(), b.rank(); ra != rb {
		return ra - rb
	}
	if a.Kind != PartFixed || a.Window == nil || b.Window == nil {
		return 0
	}
	if a.Window.Start != b.Window.Start {
		return int(a.Window.Start - b.Window.Start)
	}
	return int(a.Window.End - b.Window.End)
}
