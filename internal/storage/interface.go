package storage

import "github.com/julianstephens/dailyos/internal/models"

// Provider is the persistence collaborator behind every read and write.
// Lookups that match no row (or a row owned by another user) return an error
// wrapping errors.ErrNotFound.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Work units
	CreateWorkUnit(models.WorkUnit) (models.WorkUnit, error)
	GetWorkUnit(userID, id string) (models.WorkUnit, error)
	// ListWorkUnits returns the user's work units ordered by updated_at
	// descending, limited to statuses when any are given.
	ListWorkUnits(userID string, statuses ...models.WorkUnitStatus) ([]models.WorkUnit, error)
	UpdateWorkUnit(models.WorkUnit) (models.WorkUnit, error)
	// DeleteWorkUnit removes the unit and its checklist items.
	DeleteWorkUnit(userID, id string) error

	// Checklist items
	// AddChecklistItem stores the item at position or, for nil, appends it
	// at max(position)+1 (0 for an empty list). Positions are never renumbered.
	AddChecklistItem(workUnitID, label string, position *int) (models.ChecklistItem, error)
	GetChecklistItem(id string) (models.ChecklistItem, error)
	ListChecklistItems(workUnitID string) ([]models.ChecklistItem, error)
	UpdateChecklistItem(models.ChecklistItem) (models.ChecklistItem, error)
	DeleteChecklistItem(id string) error

	// Days
	// GetOrCreateDay returns the row for (userID, date), inserting an empty
	// one if none exists. Repeated calls return the same row.
	GetOrCreateDay(userID, date string) (models.Day, error)
	GetDay(userID, date string) (models.Day, error)
	GetDayByID(userID, id string) (models.Day, error)
	ListDaysInRange(userID, startDate, endDate string) ([]models.Day, error)
	UpsertDaySelection(userID, date string, workUnitID *string) (models.Day, error)
	UpdateDailyIntent(userID, dayID, intent string) (models.Day, error)
	UpdateHorizon(userID, dayID string, horizon models.HorizonType, content string) (models.Day, error)

	// Daily nails
	AddDailyNail(models.DailyNail) (models.DailyNail, error)
	GetDailyNail(id string) (models.DailyNail, error)
	ListDailyNails(dayID string) ([]models.DailyNail, error)
	CountDailyNails(dayID string) (int, error)
	UpdateDailyNail(models.DailyNail) (models.DailyNail, error)
	DeleteDailyNail(id string) error

	// Checkpoints
	// UpsertCheckpoint keeps exactly one checkpoint per day; a second write
	// for the same day replaces the first.
	UpsertCheckpoint(models.Checkpoint) (models.Checkpoint, error)
	GetCheckpointForDay(userID, dayID string) (models.Checkpoint, error)
	GetLatestCheckpointForWorkUnit(userID, workUnitID string) (models.Checkpoint, error)
	ListRecentCheckpoints(userID string, limit int) ([]models.CheckpointWithDate, error)
	ListCheckpointsInRange(userID, startDate, endDate string) ([]models.CheckpointWithDate, error)

	// Utils
	GetConfigPath() string
}
