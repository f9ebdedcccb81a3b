package constants

const (
	SettingWakeTime = "wake_time"
	SettingBedTime  = "bed_time"
	SettingTimezone = "timezone"

	DefaultWakeTime = "07:00"
	DefaultBedTime  = "22:00"
	DefaultTimezone = "Local" // Use system local timezone by default
)
