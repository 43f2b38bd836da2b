package models

import "time"

type WorkUnitStatus string

const (
	WorkUnitActive    WorkUnitStatus = "active"
	WorkUnitParked    WorkUnitStatus = "parked"
	WorkUnitCompleted WorkUnitStatus = "completed"
	WorkUnitArchived  WorkUnitStatus = "archived"
)

// OpenStatuses are the statuses shown on the Today screen.
var OpenStatuses = []WorkUnitStatus{WorkUnitActive, WorkUnitParked}

// Valid reports whether s is one of the known statuses.
func (s WorkUnitStatus) Valid() bool {
	switch s {
	case WorkUnitActive, WorkUnitParked, WorkUnitCompleted, WorkUnitArchived:
		return true
	}
	return false
}

type WorkUnit struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Title       string         `json:"title"`
	Outcome     string         `json:"outcome,omitempty"`
	DoneWhen    string         `json:"done_when,omitempty"`
	Status      WorkUnitStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

type ChecklistItem struct {
	ID         string    `json:"id"`
	WorkUnitID string    `json:"work_unit_id"`
	Label      string    `json:"label"`
	Position   int       `json:"position"`
	IsDone     bool      `json:"is_done"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type WorkUnitWithChecklist struct {
	WorkUnit
	ChecklistItems []ChecklistItem `json:"checklist_items"`
}

type WorkUnitWithCounts struct {
	WorkUnit
	TotalCount     int `json:"total_count"`
	CompletedCount int `json:"completed_count"`
}

// Counts derives checklist completion counts from the full checklist.
func (w WorkUnitWithChecklist) Counts() WorkUnitWithCounts {
	c := WorkUnitWithCounts{WorkUnit: w.WorkUnit, TotalCount: len(w.ChecklistItems)}
	for _, item := range w.ChecklistItems {
		if item.IsDone {
			c.CompletedCount++
		}
	}
	return c
}
