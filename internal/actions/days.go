package actions

import (
	"fmt"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/validation"
)

const freeTextRule = "max=10000"

// TodayDay returns today's day with its selection, checkpoint and nails,
// creating the empty row on first access.
func (s *Service) TodayDay(userID string) (models.DayDetails, error) {
	if err := requireUser(userID); err != nil {
		return models.DayDetails{}, err
	}
	day, err := s.store.GetOrCreateDay(userID, s.Today())
	if err != nil {
		logger.Error("Failed to load today", "user", userID, "error", err)
		return models.DayDetails{}, err
	}
	return s.dayDetails(userID, day)
}

// DayByDate returns the day for date. Dates with no row are not found.
func (s *Service) DayByDate(userID, date string) (models.DayDetails, error) {
	if err := requireUser(userID); err != nil {
		return models.DayDetails{}, err
	}
	if err := validation.Var("date", date, "date"); err != nil {
		return models.DayDetails{}, err
	}
	day, err := s.store.GetDay(userID, date)
	if err != nil {
		return models.DayDetails{}, err
	}
	return s.dayDetails(userID, day)
}

func (s *Service) dayDetails(userID string, day models.Day) (models.DayDetails, error) {
	details := models.DayDetails{Day: day, DailyNails: []models.DailyNail{}}

	if day.HasSelection() {
		wu, err := s.store.GetWorkUnit(userID, *day.SelectedWorkUnitID)
		switch {
		case err == nil:
			details.WorkUnit = &wu
		case !apperrors.Is(err, apperrors.ErrNotFound):
			return models.DayDetails{}, fmt.Errorf("failed to load selected work unit: %w", err)
		}
	}

	cp, err := s.store.GetCheckpointForDay(userID, day.ID)
	switch {
	case err == nil:
		details.Checkpoint = &cp
	case !apperrors.Is(err, apperrors.ErrNotFound):
		return models.DayDetails{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	nails, err := s.store.ListDailyNails(day.ID)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return models.DayDetails{}, fmt.Errorf("failed to load daily nails: %w", err)
	}
	details.DailyNails = nonNil(nails)
	return details, nil
}

// SetTodayWorkUnit selects workUnitID as today's focus, creating today's row
// if needed. An empty id clears the selection.
func (s *Service) SetTodayWorkUnit(userID, workUnitID string) (models.Day, error) {
	if err := requireUser(userID); err != nil {
		return models.Day{}, err
	}

	var selected *string
	if workUnitID != "" {
		if _, err := s.store.GetWorkUnit(userID, workUnitID); err != nil {
			return models.Day{}, err
		}
		selected = &workUnitID
	}

	day, err := s.store.UpsertDaySelection(userID, s.Today(), selected)
	if err != nil {
		logger.Error("Failed to set today's work unit", "user", userID, "work_unit", workUnitID, "error", err)
		return models.Day{}, err
	}
	logger.Debug("Set today's work unit", "day", day.ID, "work_unit", workUnitID)
	return day, nil
}

func (s *Service) SaveDailyIntent(userID, dayID, intent string) (models.Day, error) {
	if err := requireUser(userID); err != nil {
		return models.Day{}, err
	}
	if err := validation.Var("intent", intent, freeTextRule); err != nil {
		return models.Day{}, err
	}
	day, err := s.store.UpdateDailyIntent(userID, dayID, intent)
	if err != nil {
		logger.Error("Failed to save daily intent", "day", dayID, "error", err)
		return models.Day{}, err
	}
	return day, nil
}

func (s *Service) SaveHorizon(userID, dayID string, horizon models.HorizonType, content string) (models.Day, error) {
	if err := requireUser(userID); err != nil {
		return models.Day{}, err
	}
	if err := validation.Var("horizon", string(horizon), "horizon"); err != nil {
		return models.Day{}, err
	}
	if err := validation.Var("content", content, freeTextRule); err != nil {
		return models.Day{}, err
	}
	day, err := s.store.UpdateHorizon(userID, dayID, horizon, content)
	if err != nil {
		logger.Error("Failed to save horizon", "day", dayID, "horizon", horizon, "error", err)
		return models.Day{}, err
	}
	return day, nil
}

// HasShownUpToday reports whether a work unit is selected for today.
func (s *Service) HasShownUpToday(userID string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	day, err := s.store.GetDay(userID, s.Today())
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return day.HasSelection(), nil
}

// HasCheckpointedToday reports whether today's checkpoint exists.
func (s *Service) HasCheckpointedToday(userID string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	day, err := s.store.GetDay(userID, s.Today())
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, err = s.store.GetCheckpointForDay(userID, day.ID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
