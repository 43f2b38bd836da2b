package actions

import (
	"strings"

	"github.com/julianstephens/dailyos/internal/constants"
	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/validation"
)

// CheckpointInput is the end-of-day reflection form.
type CheckpointInput struct {
	DayID            string      `json:"day_id" validate:"required"`
	WorkUnitID       *string     `json:"work_unit_id"`
	CompletedSummary string      `json:"completed_summary" validate:"max=10000"`
	NextStep         string      `json:"next_step" validate:"max=10000"`
	Blockers         string      `json:"blockers" validate:"max=10000"`
	Mood             models.Mood `json:"mood" validate:"mood"`
}

// SaveCheckpoint writes the day's checkpoint, replacing any earlier one.
func (s *Service) SaveCheckpoint(userID string, in CheckpointInput) (models.Checkpoint, error) {
	if err := requireUser(userID); err != nil {
		return models.Checkpoint{}, err
	}
	if err := validation.Struct(in); err != nil {
		return models.Checkpoint{}, err
	}
	if _, err := s.store.GetDayByID(userID, in.DayID); err != nil {
		return models.Checkpoint{}, err
	}

	var workUnitID *string
	if in.WorkUnitID != nil && *in.WorkUnitID != "" {
		if _, err := s.store.GetWorkUnit(userID, *in.WorkUnitID); err != nil {
			return models.Checkpoint{}, err
		}
		workUnitID = in.WorkUnitID
	}

	cp, err := s.store.UpsertCheckpoint(models.Checkpoint{
		UserID:           userID,
		DayID:            in.DayID,
		WorkUnitID:       workUnitID,
		CompletedSummary: strings.TrimSpace(in.CompletedSummary),
		NextStep:         strings.TrimSpace(in.NextStep),
		Blockers:         strings.TrimSpace(in.Blockers),
		Mood:             in.Mood,
	})
	if err != nil {
		logger.Error("Failed to save checkpoint", "day", in.DayID, "error", err)
		return models.Checkpoint{}, err
	}
	logger.Info("Saved checkpoint", "day", in.DayID, "mood", cp.Mood)
	return cp, nil
}

// CheckpointForDay returns the day's checkpoint, or nil when there is none.
func (s *Service) CheckpointForDay(userID, dayID string) (*models.Checkpoint, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	cp, err := s.store.GetCheckpointForDay(userID, dayID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// LatestCheckpoint returns the newest checkpoint logged against a work unit,
// or nil when it has none.
func (s *Service) LatestCheckpoint(userID, workUnitID string) (*models.Checkpoint, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	cp, err := s.store.GetLatestCheckpointForWorkUnit(userID, workUnitID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// RecentCheckpoints lists the newest checkpoints first. A non-positive limit
// uses the default.
func (s *Service) RecentCheckpoints(userID string, limit int) ([]models.CheckpointWithDate, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = constants.DefaultRecentCheckpoints
	}
	out, err := s.store.ListRecentCheckpoints(userID, limit)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return []models.CheckpointWithDate{}, nil
	}
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}
