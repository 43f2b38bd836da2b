package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/dailyos/internal/models"
)

const workUnitColumns = `id, user_id, title, outcome, done_when, status, created_at, updated_at, completed_at`

func scanWorkUnit(row scanner) (models.WorkUnit, error) {
	var wu models.WorkUnit
	var status, createdAt, updatedAt string
	var completedAt sql.NullString

	if err := row.Scan(&wu.ID, &wu.UserID, &wu.Title, &wu.Outcome, &wu.DoneWhen, &status, &createdAt, &updatedAt, &completedAt); err != nil {
		return models.WorkUnit{}, err
	}
	wu.Status = models.WorkUnitStatus(status)

	var err error
	if wu.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.WorkUnit{}, err
	}
	if wu.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.WorkUnit{}, err
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return models.WorkUnit{}, err
		}
		wu.CompletedAt = &t
	}
	return wu, nil
}

func completedAtValue(wu models.WorkUnit) sql.NullString {
	if wu.CompletedAt == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*wu.CompletedAt), Valid: true}
}

func (s *Store) CreateWorkUnit(wu models.WorkUnit) (models.WorkUnit, error) {
	if wu.ID == "" {
		wu.ID = newID()
	}
	if wu.Status == "" {
		wu.Status = models.WorkUnitActive
	}
	now := s.timestamp()
	wu.CreatedAt, wu.UpdatedAt = now, now

	_, err := s.exec(`
		INSERT INTO work_units (`+workUnitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		wu.ID, wu.UserID, wu.Title, wu.Outcome, wu.DoneWhen, string(wu.Status),
		formatTime(wu.CreatedAt), formatTime(wu.UpdatedAt), completedAtValue(wu),
	)
	if err != nil {
		return models.WorkUnit{}, fmt.Errorf("failed to insert work unit: %w", err)
	}
	return wu, nil
}

func (s *Store) GetWorkUnit(userID, id string) (models.WorkUnit, error) {
	row := s.queryRow(`SELECT `+workUnitColumns+` FROM work_units WHERE id = ? AND user_id = ?`, id, userID)
	wu, err := scanWorkUnit(row)
	if err != nil {
		return models.WorkUnit{}, notFound(err, "work unit %s", id)
	}
	return wu, nil
}

func (s *Store) ListWorkUnits(userID string, statuses ...models.WorkUnitStatus) ([]models.WorkUnit, error) {
	query := `SELECT ` + workUnitColumns + ` FROM work_units WHERE user_id = ?`
	args := []any{userID}
	if len(statuses) > 0 {
		query += ` AND status IN (` + placeholders(len(statuses)) + `)`
		for _, st := range statuses {
			args = append(args, string(st))
		}
	}
	query += ` ORDER BY updated_at DESC, created_at DESC`

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work units: %w", err)
	}
	defer rows.Close()

	var out []models.WorkUnit
	for rows.Next() {
		wu, err := scanWorkUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wu)
	}
	return out, rows.Err()
}

// UpdateWorkUnit writes the editable fields and bumps updated_at.
func (s *Store) UpdateWorkUnit(wu models.WorkUnit) (models.WorkUnit, error) {
	err := s.execOne("work unit "+wu.ID, `
		UPDATE work_units
		SET title = ?, outcome = ?, done_when = ?, status = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		wu.Title, wu.Outcome, wu.DoneWhen, string(wu.Status), completedAtValue(wu), formatTime(s.timestamp()),
		wu.ID, wu.UserID,
	)
	if err != nil {
		return models.WorkUnit{}, err
	}
	return s.GetWorkUnit(wu.UserID, wu.ID)
}

func (s *Store) DeleteWorkUnit(userID, id string) error {
	return s.execOne("work unit "+id, `DELETE FROM work_units WHERE id = ? AND user_id = ?`, id, userID)
}
