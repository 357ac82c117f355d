package storage

import (
	"github.com/julianstephens/fieldplan/internal/migration"
	"github.com/julianstephens/fieldplan/internal/models"
)

// Provider persists settings and the activity collection.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Activities. Get* methods exclude soft-deleted records unless named otherwise;
	// GetAllActivities returns them in insertion order.
	AddActivity(models.Activity) error
	GetActivity(id models.ActivityID) (models.Activity, error)
	GetAllActivities() ([]models.Activity, error)
	GetAllActivitiesIncludingDeleted() ([]models.Activity, error)
	UpdateActivity(models.Activity) error
	DeleteActivity(id models.ActivityID) error
	RestoreActivity(id models.ActivityID) error

	// SaveActivities replaces the whole live collection with acts, keeping
	// their order. Activities not in acts are soft-deleted.
	SaveActivities(acts []models.Activity) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL-backed providers.
type Migrator interface {
	SchemaStatus() (migration.Status, error)
	Migrate(logFn func(string)) (int, error)
}
