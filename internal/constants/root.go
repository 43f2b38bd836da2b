package constants

import "time"

const (
	AppName            = "dailyos"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/dailyos/dailyos.db"
	DefaultUserID      = "local"
	DefaultAddr        = ":8080"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat labels a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// Env vars
	EnvDBConnection = "DAILYOS_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dailyos-"
	BackupFileSuffix = ".db"

	// MomentumWindowDays is the length of the rolling momentum view, today included.
	MomentumWindowDays = 7

	// MaxDailyNails caps the legacy nails per day.
	MaxDailyNails = 3

	// AutosaveDelay is the quiet period before a free-text field is committed.
	AutosaveDelay = 1000 * time.Millisecond

	// DefaultRecentCheckpoints is the page size for the recent checkpoint list.
	DefaultRecentCheckpoints = 10
)
