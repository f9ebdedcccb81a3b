package constants

// Canonical part-of-day windows, in minutes since midnight.
const (
	MorningStart   = 4 * 60
	AfternoonStart = 12 * 60
	EveningStart   = 18 * 60
	NightStart     = 21 * 60
	DayEnd         = 24 * 60
)
