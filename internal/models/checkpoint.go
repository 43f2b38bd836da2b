package models

import "time"

type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodTired Mood = "tired"
	MoodStuck Mood = "stuck"
)

// Moods lists the moods offered by the clients, best first.
var Moods = []Mood{MoodGreat, MoodGood, MoodOkay, MoodTired, MoodStuck}

type Checkpoint struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	DayID            string    `json:"day_id"`
	WorkUnitID       *string   `json:"work_unit_id"`
	CompletedSummary string    `json:"completed_summary"`
	NextStep         string    `json:"next_step"`
	Blockers         string    `json:"blockers"`
	Mood             Mood      `json:"mood,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CheckpointWithDate carries the calendar date of the checkpoint's parent day.
type CheckpointWithDate struct {
	Checkpoint
	Date string `json:"date"`
}
