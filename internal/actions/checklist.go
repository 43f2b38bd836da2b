package actions

import (
	"strings"

	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/validation"
)

const checklistLabelRule = "notblank,max=500"

// AddChecklistItem appends an item to the unit's checklist, or places it at
// position when one is given.
func (s *Service) AddChecklistItem(userID, workUnitID, label string, position *int) (models.ChecklistItem, error) {
	if err := requireUser(userID); err != nil {
		return models.ChecklistItem{}, err
	}
	if err := validation.Var("label", label, checklistLabelRule); err != nil {
		return models.ChecklistItem{}, err
	}
	if position != nil {
		if err := validation.Var("position", *position, "gte=0"); err != nil {
			return models.ChecklistItem{}, err
		}
	}
	if _, err := s.store.GetWorkUnit(userID, workUnitID); err != nil {
		return models.ChecklistItem{}, err
	}

	item, err := s.store.AddChecklistItem(workUnitID, strings.TrimSpace(label), position)
	if err != nil {
		logger.Error("Failed to add checklist item", "work_unit", workUnitID, "error", err)
		return models.ChecklistItem{}, err
	}
	return item, nil
}

func (s *Service) ToggleChecklistItem(userID, itemID string, done bool) (models.ChecklistItem, error) {
	item, err := s.ownedChecklistItem(userID, itemID)
	if err != nil {
		return models.ChecklistItem{}, err
	}
	item.IsDone = done
	return s.store.UpdateChecklistItem(item)
}

func (s *Service) RenameChecklistItem(userID, itemID, label string) (models.ChecklistItem, error) {
	if err := validation.Var("label", label, checklistLabelRule); err != nil {
		return models.ChecklistItem{}, err
	}
	item, err := s.ownedChecklistItem(userID, itemID)
	if err != nil {
		return models.ChecklistItem{}, err
	}
	item.Label = strings.TrimSpace(label)
	return s.store.UpdateChecklistItem(item)
}

// DeleteChecklistItem removes an item. Remaining positions keep their gaps.
func (s *Service) DeleteChecklistItem(userID, itemID string) (models.ChecklistItem, error) {
	item, err := s.ownedChecklistItem(userID, itemID)
	if err != nil {
		return models.ChecklistItem{}, err
	}
	if err := s.store.DeleteChecklistItem(itemID); err != nil {
		return models.ChecklistItem{}, err
	}
	return item, nil
}

// ownedChecklistItem loads an item and checks that its unit belongs to userID.
// Items of other users are reported as not found.
func (s *Service) ownedChecklistItem(userID, itemID string) (models.ChecklistItem, error) {
	if err := requireUser(userID); err != nil {
		return models.ChecklistItem{}, err
	}
	item, err := s.store.GetChecklistItem(itemID)
	if err != nil {
		return models.ChecklistItem{}, err
	}
	if _, err := s.store.GetWorkUnit(userID, item.WorkUnitID); err != nil {
		return models.ChecklistItem{}, err
	}
	return item, nil
}
