package constants

const (
	AppName            = "lunite"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/lunite"
	DefaultStoragePath = "~/.config/lunite/lunite.db"
	ConfigFileName     = "lunite.toml"
	LockfileName       = "lunite.lock"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time-of-day format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DaysPerWeek is the number of day slots a planner owns, Monday first.
	DaysPerWeek = 7

	// StaticDoneRetentionDays is how long a static completion suppresses its task.
	StaticDoneRetentionDays = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lunite-"
	BackupFileSuffix = ".db"

	// Environment variables
	EnvStorage          = "LUNITE_STORAGE"
	EnvDebug            = "LUNITE_DEBUG"
	EnvDBConnection     = "LUNITE_DB_CONNECTION"
	EnvTestPostgresConn = "LUNITE_TEST_POSTGRES"
)
