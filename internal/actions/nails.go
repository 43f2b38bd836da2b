package actions

import (
	"strings"

	"github.com/julianstephens/dailyos/internal/constants"
	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/validation"
)

// NailInput is a legacy daily nail request.
type NailInput struct {
	DayID      string  `json:"day_id" validate:"required"`
	Label      string  `json:"label" validate:"notblank,max=500"`
	WorkUnitID *string `json:"work_unit_id"`
}

// AddDailyNail appends a nail to the day. A day holding the maximum already
// is rejected with ErrNailLimit and nothing is written.
func (s *Service) AddDailyNail(userID string, in NailInput) (models.DailyNail, error) {
	if err := requireUser(userID); err != nil {
		return models.DailyNail{}, err
	}
	if err := validation.Struct(in); err != nil {
		return models.DailyNail{}, err
	}
	if _, err := s.store.GetDayByID(userID, in.DayID); err != nil {
		return models.DailyNail{}, err
	}
	if in.WorkUnitID != nil && *in.WorkUnitID != "" {
		if _, err := s.store.GetWorkUnit(userID, *in.WorkUnitID); err != nil {
			return models.DailyNail{}, err
		}
	}

	// Count and insert under one lock so two requests cannot both see two nails.
	s.nailMu.Lock()
	defer s.nailMu.Unlock()

	count, err := s.store.CountDailyNails(in.DayID)
	if err != nil {
		return models.DailyNail{}, err
	}
	if count >= constants.MaxDailyNails {
		logger.Warn("Rejected daily nail over the limit", "day", in.DayID, "count", count)
		return models.DailyNail{}, apperrors.ErrNailLimit
	}

	return s.store.AddDailyNail(models.DailyNail{
		DayID:      in.DayID,
		Label:      strings.TrimSpace(in.Label),
		WorkUnitID: in.WorkUnitID,
	})
}

func (s *Service) ToggleDailyNail(userID, nailID string, done bool) (models.DailyNail, error) {
	nail, err := s.ownedNail(userID, nailID)
	if err != nil {
		return models.DailyNail{}, err
	}
	nail.IsDone = done
	return s.store.UpdateDailyNail(nail)
}

func (s *Service) DeleteDailyNail(userID, nailID string) error {
	if _, err := s.ownedNail(userID, nailID); err != nil {
		return err
	}
	return s.store.DeleteDailyNail(nailID)
}

func (s *Service) ownedNail(userID, nailID string) (models.DailyNail, error) {
	if err := requireUser(userID); err != nil {
		return models.DailyNail{}, err
	}
	nail, err := s.store.GetDailyNail(nailID)
	if err != nil {
		return models.DailyNail{}, err
	}
	if _, err := s.store.GetDayByID(userID, nail.DayID); err != nil {
		return models.DailyNail{}, err
	}
	return nail, nil
}
