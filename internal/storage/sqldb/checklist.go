package sqldb

import (
	"fmt"

	"github.com/julianstephens/dailyos/internal/models"
)

const checklistColumns = `id, work_unit_id, label, position, is_done, created_at, updated_at`

func scanChecklistItem(row scanner) (models.ChecklistItem, error) {
	var item models.ChecklistItem
	var createdAt, updatedAt string
	if err := row.Scan(&item.ID, &item.WorkUnitID, &item.Label, &item.Position, &item.IsDone, &createdAt, &updatedAt); err != nil {
		return models.ChecklistItem{}, err
	}

	var err error
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.ChecklistItem{}, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.ChecklistItem{}, err
	}
	return item, nil
}

// AddChecklistItem stores the item at position, or when position is nil
// appends it at max(position)+1 (0 for an empty list). The maximum is read
// inside the INSERT so concurrent appends cannot see the same value.
func (s *Store) AddChecklistItem(workUnitID, label string, position *int) (models.ChecklistItem, error) {
	id := newID()
	now := formatTime(s.timestamp())

	var err error
	if position != nil {
		_, err = s.exec(`
			INSERT INTO checklist_items (`+checklistColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, workUnitID, label, *position, false, now, now,
		)
	} else {
		_, err = s.exec(`
			INSERT INTO checklist_items (`+checklistColumns+`)
			VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM checklist_items WHERE work_unit_id = ?), ?, ?, ?)`,
			id, workUnitID, label, workUnitID, false, now, now,
		)
	}
	if err != nil {
		return models.ChecklistItem{}, fmt.Errorf("failed to insert checklist item: %w", err)
	}
	return s.GetChecklistItem(id)
}

func (s *Store) GetChecklistItem(id string) (models.ChecklistItem, error) {
	item, err := scanChecklistItem(s.queryRow(`SELECT `+checklistColumns+` FROM checklist_items WHERE id = ?`, id))
	if err != nil {
		return models.ChecklistItem{}, notFound(err, "checklist item %s", id)
	}
	return item, nil
}

func (s *Store) ListChecklistItems(workUnitID string) ([]models.ChecklistItem, error) {
	rows, err := s.query(`
		SELECT `+checklistColumns+` FROM checklist_items
		WHERE work_unit_id = ?
		ORDER BY position ASC, created_at ASC`, workUnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	defer rows.Close()

	var out []models.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// UpdateChecklistItem writes label and done state. Position never changes
// after insert.
func (s *Store) UpdateChecklistItem(item models.ChecklistItem) (models.ChecklistItem, error) {
	err := s.execOne("checklist item "+item.ID,
		`UPDATE checklist_items SET label = ?, is_done = ?, updated_at = ? WHERE id = ?`,
		item.Label, item.IsDone, formatTime(s.timestamp()), item.ID,
	)
	if err != nil {
		return models.ChecklistItem{}, err
	}
	return s.GetChecklistItem(item.ID)
}

func (s *Store) DeleteChecklistItem(id string) error {
	return s.execOne("checklist item "+id, `DELETE FROM checklist_items WHERE id = ?`, id)
}
