// Package insights computes the read-only aggregates shown next to the day:
// monthly streak counts and the seven-day momentum window.
//
// The functions in this file and momentum.go are pure. Service wires them to
// a store.
package insights

import (
	"time"

	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/utils"
)

// MonthlyStreaks counts, over the calendar month containing now, the dates with
// a selected work unit and the dates that were closed with a checkpoint.
//
// Both numbers are plain cardinalities. A missed day never resets anything;
// the counts only start over when the month changes. Rows outside the month
// are ignored, and a date is counted at most once per metric.
func MonthlyStreaks(now time.Time, days []models.Day, checkpoints []models.CheckpointWithDate) models.StreakData {
	start, end, label := utils.MonthBounds(now)

	present := make(map[string]struct{})
	for _, d := range days {
		if d.Date < start || d.Date > end || !d.HasSelection() {
			continue
		}
		present[d.Date] = struct{}{}
	}

	closed := make(map[string]struct{})
	for _, cp := range checkpoints {
		if cp.Date < start || cp.Date > end {
			continue
		}
		closed[cp.Date] = struct{}{}
	}

	return models.StreakData{
		PresenceStreak:   len(present),
		CheckpointStreak: len(closed),
		CurrentMonth:     label,
	}
}
