package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/dailyos/internal/models"
)

const nailColumns = `id, day_id, label, work_unit_id, is_done, position, created_at`

func scanDailyNail(row scanner) (models.DailyNail, error) {
	var n models.DailyNail
	var workUnitID sql.NullString
	var createdAt string
	if err := row.Scan(&n.ID, &n.DayID, &n.Label, &workUnitID, &n.IsDone, &n.Position, &createdAt); err != nil {
		return models.DailyNail{}, err
	}
	n.WorkUnitID = stringPtr(workUnitID)

	var err error
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.DailyNail{}, err
	}
	return n, nil
}

// AddDailyNail appends the nail after the day's last one. The three-per-day
// cap is enforced by the caller before this is reached.
func (s *Store) AddDailyNail(n models.DailyNail) (models.DailyNail, error) {
	if n.ID == "" {
		n.ID = newID()
	}
	_, err := s.exec(`
		INSERT INTO daily_nails (`+nailColumns+`)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM daily_nails WHERE day_id = ?), ?)`,
		n.ID, n.DayID, n.Label, nullString(n.WorkUnitID), n.IsDone, n.DayID, formatTime(s.timestamp()),
	)
	if err != nil {
		return models.DailyNail{}, fmt.Errorf("failed to insert daily nail: %w", err)
	}
	return s.GetDailyNail(n.ID)
}

func (s *Store) GetDailyNail(id string) (models.DailyNail, error) {
	n, err := scanDailyNail(s.queryRow(`SELECT `+nailColumns+` FROM daily_nails WHERE id = ?`, id))
	if err != nil {
		return models.DailyNail{}, notFound(err, "daily nail %s", id)
	}
	return n, nil
}

func (s *Store) ListDailyNails(dayID string) ([]models.DailyNail, error) {
	rows, err := s.query(`SELECT `+nailColumns+` FROM daily_nails WHERE day_id = ? ORDER BY position ASC`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily nails: %w", err)
	}
	defer rows.Close()

	var out []models.DailyNail
	for rows.Next() {
		n, err := scanDailyNail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountDailyNails(dayID string) (int, error) {
	var count int
	if err := s.queryRow(`SELECT COUNT(*) FROM daily_nails WHERE day_id = ?`, dayID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count daily nails: %w", err)
	}
	return count, nil
}

func (s *Store) UpdateDailyNail(n models.DailyNail) (models.DailyNail, error) {
	err := s.execOne("daily nail "+n.ID,
		`UPDATE daily_nails SET label = ?, work_unit_id = ?, is_done = ? WHERE id = ?`,
		n.Label, nullString(n.WorkUnitID), n.IsDone, n.ID,
	)
	if err != nil {
		return models.DailyNail{}, err
	}
	return s.GetDailyNail(n.ID)
}

func (s *Store) DeleteDailyNail(id string) error {
	return s.execOne("daily nail "+id, `DELETE FROM daily_nails WHERE id = ?`, id)
}
