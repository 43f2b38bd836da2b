package actions

import (
	"github.com/julianstephens/dailyos/internal/models"
)

// MonthlyStreaks counts this month's presence and checkpoint days.
func (s *Service) MonthlyStreaks(userID string) (models.StreakData, error) {
	if err := requireUser(userID); err != nil {
		return models.StreakData{}, err
	}
	return s.insights.Streaks(userID, s.Now())
}

// WeeklyMomentum summarizes the seven days ending today.
func (s *Service) WeeklyMomentum(userID string) (models.MomentumSummary, error) {
	if err := requireUser(userID); err != nil {
		return models.MomentumSummary{}, err
	}
	return s.insights.Momentum(userID, s.Now())
}
