package models

import "time"

type HorizonType string

const (
	HorizonWeekly    HorizonType = "weekly"
	HorizonMonthly   HorizonType = "monthly"
	HorizonYearly    HorizonType = "yearly"
	HorizonDirection HorizonType = "direction"
)

// HorizonTypes lists horizons from the nearest to the furthest.
var HorizonTypes = []HorizonType{HorizonWeekly, HorizonMonthly, HorizonYearly, HorizonDirection}

// Column returns the days column holding this horizon, or "" for an unknown type.
func (h HorizonType) Column() string {
	switch h {
	case HorizonWeekly:
		return "weekly_horizon"
	case HorizonMonthly:
		return "monthly_horizon"
	case HorizonYearly:
		return "yearly_horizon"
	case HorizonDirection:
		return "direction_horizon"
	}
	return ""
}

type Day struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Date               string    `json:"date"` // YYYY-MM-DD format
	SelectedWorkUnitID *string   `json:"selected_work_unit_id"`
	DailyIntent        string    `json:"daily_intent"`
	WeeklyHorizon      string    `json:"weekly_horizon"`
	MonthlyHorizon     string    `json:"monthly_horizon"`
	YearlyHorizon      string    `json:"yearly_horizon"`
	DirectionHorizon   string    `json:"direction_horizon"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Horizon returns the text stored for h.
func (d Day) Horizon(h HorizonType) string {
	switch h {
	case HorizonWeekly:
		return d.WeeklyHorizon
	case HorizonMonthly:
		return d.MonthlyHorizon
	case HorizonYearly:
		return d.YearlyHorizon
	case HorizonDirection:
		return d.DirectionHorizon
	}
	return ""
}

// WithHorizon returns a copy of d with h set to content.
func (d Day) WithHorizon(h HorizonType, content string) Day {
	switch h {
	case HorizonWeekly:
		d.WeeklyHorizon = content
	case HorizonMonthly:
		d.MonthlyHorizon = content
	case HorizonYearly:
		d.YearlyHorizon = content
	case HorizonDirection:
		d.DirectionHorizon = content
	}
	return d
}

// HasSelection reports whether a work unit was picked for the day.
func (d Day) HasSelection() bool {
	return d.SelectedWorkUnitID != nil && *d.SelectedWorkUnitID != ""
}

// DailyNail is a legacy micro-commitment; at most three exist per day.
type DailyNail struct {
	ID         string    `json:"id"`
	DayID      string    `json:"day_id"`
	Label      string    `json:"label"`
	WorkUnitID *string   `json:"work_unit_id,omitempty"`
	IsDone     bool      `json:"is_done"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

// DayDetails is a day together with everything the Today screen shows about it.
type DayDetails struct {
	Day
	WorkUnit   *WorkUnit   `json:"work_unit"`
	Checkpoint *Checkpoint `json:"checkpoint"`
	DailyNails []DailyNail `json:"daily_nails"`
}

// Clone returns a deep copy so cached snapshots never share pointers with live values.
func (d DayDetails) Clone() DayDetails {
	out := d
	if d.SelectedWorkUnitID != nil {
		id := *d.SelectedWorkUnitID
		out.SelectedWorkUnitID = &id
	}
	if d.WorkUnit != nil {
		wu := *d.WorkUnit
		out.WorkUnit = &wu
	}
	if d.Checkpoint != nil {
		cp := *d.Checkpoint
		out.Checkpoint = &cp
	}
	if d.DailyNails != nil {
		out.DailyNails = append([]DailyNail(nil), d.DailyNails...)
	}
	return out
}
