package actions

import (
	"fmt"
	"strings"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/validation"
)

// WorkUnitInput carries the fields of a create request.
type WorkUnitInput struct {
	Title    string                `json:"title" validate:"notblank,max=200"`
	Outcome  string                `json:"outcome" validate:"max=2000"`
	DoneWhen string                `json:"done_when" validate:"max=2000"`
	Status   models.WorkUnitStatus `json:"status" validate:"omitempty,status"`
}

// WorkUnitPatch carries the fields of an update request. Nil fields are left alone.
type WorkUnitPatch struct {
	Title    *string                `json:"title" validate:"omitempty,notblank,max=200"`
	Outcome  *string                `json:"outcome" validate:"omitempty,max=2000"`
	DoneWhen *string                `json:"done_when" validate:"omitempty,max=2000"`
	Status   *models.WorkUnitStatus `json:"status" validate:"omitempty,status"`
}

func (s *Service) CreateWorkUnit(userID string, in WorkUnitInput) (models.WorkUnit, error) {
	if err := requireUser(userID); err != nil {
		return models.WorkUnit{}, err
	}
	if err := validation.Struct(in); err != nil {
		return models.WorkUnit{}, err
	}

	wu := models.WorkUnit{
		UserID:   userID,
		Title:    strings.TrimSpace(in.Title),
		Outcome:  in.Outcome,
		DoneWhen: in.DoneWhen,
		Status:   in.Status,
	}
	if wu.Status == "" {
		wu.Status = models.WorkUnitActive
	}
	s.stampCompletion(&wu, "")

	created, err := s.store.CreateWorkUnit(wu)
	if err != nil {
		logger.Error("Failed to create work unit", "user", userID, "error", err)
		return models.WorkUnit{}, err
	}
	logger.Info("Created work unit", "id", created.ID, "title", created.Title)
	return created, nil
}

func (s *Service) UpdateWorkUnit(userID, id string, patch WorkUnitPatch) (models.WorkUnit, error) {
	if err := requireUser(userID); err != nil {
		return models.WorkUnit{}, err
	}
	if err := validation.Struct(patch); err != nil {
		return models.WorkUnit{}, err
	}

	wu, err := s.store.GetWorkUnit(userID, id)
	if err != nil {
		return models.WorkUnit{}, err
	}
	previous := wu.Status
	if patch.Title != nil {
		wu.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Outcome != nil {
		wu.Outcome = *patch.Outcome
	}
	if patch.DoneWhen != nil {
		wu.DoneWhen = *patch.DoneWhen
	}
	if patch.Status != nil {
		wu.Status = *patch.Status
	}
	s.stampCompletion(&wu, previous)

	updated, err := s.store.UpdateWorkUnit(wu)
	if err != nil {
		logger.Error("Failed to update work unit", "id", id, "error", err)
		return models.WorkUnit{}, err
	}
	return updated, nil
}

// SetWorkUnitStatus moves a unit between active, parked, completed and archived.
func (s *Service) SetWorkUnitStatus(userID, id string, status models.WorkUnitStatus) (models.WorkUnit, error) {
	return s.UpdateWorkUnit(userID, id, WorkUnitPatch{Status: &status})
}

func (s *Service) CompleteWorkUnit(userID, id string) (models.WorkUnit, error) {
	return s.SetWorkUnitStatus(userID, id, models.WorkUnitCompleted)
}

// stampCompletion sets completed_at on the transition into completed and
// clears it when a unit is reopened.
func (s *Service) stampCompletion(wu *models.WorkUnit, previous models.WorkUnitStatus) {
	switch {
	case wu.Status == models.WorkUnitCompleted && previous != models.WorkUnitCompleted:
		now := s.Now()
		wu.CompletedAt = &now
	case wu.Status != models.WorkUnitCompleted:
		wu.CompletedAt = nil
	}
}

// DeleteWorkUnit removes the unit with its checklist. Days that had it
// selected keep their row with no selection.
func (s *Service) DeleteWorkUnit(userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.store.DeleteWorkUnit(userID, id); err != nil {
		return err
	}
	logger.Info("Deleted work unit", "id", id)
	return nil
}

// WorkUnit returns one unit with its ordered checklist.
func (s *Service) WorkUnit(userID, id string) (models.WorkUnitWithChecklist, error) {
	if err := requireUser(userID); err != nil {
		return models.WorkUnitWithChecklist{}, err
	}
	wu, err := s.store.GetWorkUnit(userID, id)
	if err != nil {
		return models.WorkUnitWithChecklist{}, err
	}
	items, err := s.store.ListChecklistItems(id)
	if err != nil {
		return models.WorkUnitWithChecklist{}, fmt.Errorf("failed to load checklist: %w", err)
	}
	return models.WorkUnitWithChecklist{WorkUnit: wu, ChecklistItems: nonNil(items)}, nil
}

// WorkUnits lists the user's units, newest activity first, optionally
// limited to one status.
func (s *Service) WorkUnits(userID string, status models.WorkUnitStatus) ([]models.WorkUnit, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if status == "" {
		return s.listWorkUnits(userID)
	}
	if !status.Valid() {
		return nil, apperrors.Invalidf("unknown status %q", status)
	}
	return s.listWorkUnits(userID, status)
}

// ActiveWorkUnits lists units that are active or parked.
func (s *Service) ActiveWorkUnits(userID string) ([]models.WorkUnit, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.listWorkUnits(userID, models.OpenStatuses...)
}

func (s *Service) ActiveWorkUnitsWithChecklists(userID string) ([]models.WorkUnitWithChecklist, error) {
	units, err := s.ActiveWorkUnits(userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.WorkUnitWithChecklist, 0, len(units))
	for _, wu := range units {
		items, err := s.store.ListChecklistItems(wu.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load checklist for %s: %w", wu.ID, err)
		}
		out = append(out, models.WorkUnitWithChecklist{WorkUnit: wu, ChecklistItems: nonNil(items)})
	}
	return out, nil
}

func (s *Service) ActiveWorkUnitsWithCounts(userID string) ([]models.WorkUnitWithCounts, error) {
	units, err := s.ActiveWorkUnitsWithChecklists(userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.WorkUnitWithCounts, len(units))
	for i, w := range units {
		out[i] = w.Counts()
	}
	return out, nil
}

func (s *Service) listWorkUnits(userID string, statuses ...models.WorkUnitStatus) ([]models.WorkUnit, error) {
	units, err := s.store.ListWorkUnits(userID, statuses...)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return []models.WorkUnit{}, nil
	}
	if err != nil {
		return nil, err
	}
	return nonNil(units), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
