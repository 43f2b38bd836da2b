package insights

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/utils"
)

// Reader is the slice of the store the aggregates need.
type Reader interface {
	ListDaysInRange(userID, startDate, endDate string) ([]models.Day, error)
	ListCheckpointsInRange(userID, startDate, endDate string) ([]models.CheckpointWithDate, error)
}

type Service struct {
	store Reader
}

func NewService(store Reader) *Service {
	return &Service{store: store}
}

// Streaks loads the month containing now and counts presence and checkpoints.
func (s *Service) Streaks(userID string, now time.Time) (models.StreakData, error) {
	start, end, _ := utils.MonthBounds(now)
	days, checkpoints, err := s.load(userID, start, end)
	if err != nil {
		return models.StreakData{}, fmt.Errorf("failed to load monthly streaks: %w", err)
	}
	return MonthlyStreaks(now, days, checkpoints), nil
}

// Momentum loads the seven days ending at today and summarizes them.
func (s *Service) Momentum(userID string, today time.Time) (models.MomentumSummary, error) {
	start, end := MomentumWindow(today)
	days, checkpoints, err := s.load(userID, start, end)
	if err != nil {
		return models.MomentumSummary{}, fmt.Errorf("failed to load weekly momentum: %w", err)
	}
	return Summarize(WeeklyMomentum(today, days, checkpoints)), nil
}

// load fetches both row sets concurrently. Missing rows are not an error here:
// an aggregate over nothing is zero.
func (s *Service) load(userID, start, end string) ([]models.Day, []models.CheckpointWithDate, error) {
	if userID == "" {
		return nil, nil, apperrors.ErrNotAuthenticated
	}

	var (
		days        []models.Day
		checkpoints []models.CheckpointWithDate
		g           errgroup.Group
	)
	g.Go(func() error {
		var err error
		days, err = s.store.ListDaysInRange(userID, start, end)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("No days in range", "user", userID, "start", start, "end", end)
			days, err = nil, nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		checkpoints, err = s.store.ListCheckpointsInRange(userID, start, end)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			checkpoints, err = nil, nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return days, checkpoints, nil
}
