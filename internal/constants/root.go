package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "fieldplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/fieldplan/fieldplan.db"
	Version            = "v0.3.0"

	// EnvDBConnection holds a PostgreSQL connection string when it should not live in the keyring
	EnvDBConnection = "FIELDPLAN_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat identifies a visible window on the command line (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "fieldplan-"
	BackupFileSuffix = ".db"

	// Settings defaults
	DefaultColumnWidth  = 4
	MinColumnWidth      = 2
	MaxColumnWidth      = 12
	DefaultUpcomingDays = 14
	DefaultTimezone     = "Local"
	DefaultKind         = "Nursery"

	// Chart layout
	RowLabelWidth = 16
)

// Session States
const (
	StateChart SessionState = iota
	StateUpcoming
	StateSettings
	StateEditing
	StateEditSettings
	StateConfirmDelete
)

// ActivityKinds lists the activity categories offered by forms. Kinds are
// free-form tags; anything else the user types is stored as-is.
var ActivityKinds = []string{
	"Nursery",
	"Land Preparation",
	"Transplanting",
	"Sowing",
	"Fertilizing",
	"Irrigation",
	"Weeding",
	"Pest Control",
	"Harvest",
}
