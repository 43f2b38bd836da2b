package insights

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/utils"
)

// MomentumWindow returns the first and last dates of the window ending at today.
func MomentumWindow(today time.Time) (start, end string) {
	dates := utils.LastNDays(today, constants.MomentumWindowDays)
	return dates[0], dates[len(dates)-1]
}

// WeeklyMomentum maps the seven dates ending at today to activity markers,
// oldest first. A date without a day row is inactive and open.
func WeeklyMomentum(today time.Time, days []models.Day, checkpoints []models.CheckpointWithDate) []models.MomentumDay {
	selected := make(map[string]bool, len(days))
	for _, d := range days {
		if d.HasSelection() {
			selected[d.Date] = true
		}
	}

	moods := make(map[string]models.Mood, len(checkpoints))
	for _, cp := range checkpoints {
		moods[cp.Date] = cp.Mood
	}

	dates := utils.LastNDays(today, constants.MomentumWindowDays)
	out := make([]models.MomentumDay, 0, len(dates))
	for _, date := range dates {
		mood, closed := moods[date]
		out = append(out, models.MomentumDay{
			Date:          date,
			DayOfWeek:     utils.ShortWeekday(date),
			HasActivity:   selected[date] || closed,
			HasCheckpoint: closed,
			Mood:          mood,
		})
	}
	return out
}

// ClassifyTrend compares active days in the older half of the window with the
// newer half. The split point is len/2, so seven days compare three against
// four. The comparison is deliberately coarse; it never reads more into a
// noisy week than "more", "fewer" or "the same".
func ClassifyTrend(days []models.MomentumDay) models.Trend {
	if len(days) == 0 {
		return models.TrendStable
	}

	mid := len(days) / 2
	first := countActive(days[:mid])
	second := countActive(days[mid:])

	switch {
	case second > first:
		return models.TrendGaining
	case second < first:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// Summarize derives the trend, day counts and the one-line description.
func Summarize(days []models.MomentumDay) models.MomentumSummary {
	s := models.MomentumSummary{
		Days:       days,
		Trend:      ClassifyTrend(days),
		ActiveDays: countActive(days),
	}
	for _, d := range days {
		if d.HasCheckpoint {
			s.ClosedDays++
		}
	}
	s.Text = summaryText(s)
	return s
}

// TrendLabel is the headline shown for a trend.
func TrendLabel(t models.Trend) string {
	switch t {
	case models.TrendGaining:
		return "Gaining momentum"
	case models.TrendDeclining:
		return "Building back up"
	default:
		return "Steady progress"
	}
}

func summaryText(s models.MomentumSummary) string {
	if s.ActiveDays == 0 {
		return TrendLabel(s.Trend) + ": a fresh start"
	}
	unit := "days"
	if s.ActiveDays == 1 {
		unit = "day"
	}
	text := fmt.Sprintf("%s: %d %s with activity", TrendLabel(s.Trend), s.ActiveDays, unit)
	if s.ClosedDays > 0 {
		text += fmt.Sprintf(", %d closed", s.ClosedDays)
	}
	return text
}

func countActive(days []models.MomentumDay) int {
	n := 0
	for _, d := range days {
		if d.HasActivity {
			n++
		}
	}
	return n
}
