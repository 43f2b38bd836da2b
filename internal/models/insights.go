package models

type StreakData struct {
	PresenceStreak   int    `json:"presence_streak"`
	CheckpointStreak int    `json:"checkpoint_streak"`
	CurrentMonth     string `json:"current_month"` // YYYY-MM
}

type MomentumDay struct {
	Date          string `json:"date"`
	DayOfWeek     string `json:"day_of_week"`
	HasActivity   bool   `json:"has_activity"`
	HasCheckpoint bool   `json:"has_checkpoint"`
	Mood          Mood   `json:"mood,omitempty"`
}

type Trend string

const (
	TrendGaining   Trend = "gaining"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

type MomentumSummary struct {
	Days       []MomentumDay `json:"days"`
	Trend      Trend         `json:"trend"`
	ActiveDays int           `json:"active_days"`
	ClosedDays int           `json:"closed_days"`
	Text       string        `json:"text"`
}
