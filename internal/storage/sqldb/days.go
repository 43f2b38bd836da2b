package sqldb

import (
	"database/sql"
	"fmt"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/models"
)

const dayColumns = `id, user_id, date, selected_work_unit_id, daily_intent,
	weekly_horizon, monthly_horizon, yearly_horizon, direction_horizon, created_at, updated_at`

func scanDay(row scanner) (models.Day, error) {
	var d models.Day
	var selected sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&d.ID, &d.UserID, &d.Date, &selected, &d.DailyIntent,
		&d.WeeklyHorizon, &d.MonthlyHorizon, &d.YearlyHorizon, &d.DirectionHorizon,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return models.Day{}, err
	}
	d.SelectedWorkUnitID = stringPtr(selected)

	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Day{}, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Day{}, err
	}
	return d, nil
}

// GetOrCreateDay relies on the (user_id, date) unique key: a racing insert
// is discarded and both callers read the surviving row.
func (s *Store) GetOrCreateDay(userID, date string) (models.Day, error) {
	now := formatTime(s.timestamp())
	_, err := s.exec(`
		INSERT INTO days (id, user_id, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO NOTHING`,
		newID(), userID, date, now, now,
	)
	if err != nil {
		return models.Day{}, fmt.Errorf("failed to create day %s: %w", date, err)
	}
	return s.GetDay(userID, date)
}

func (s *Store) GetDay(userID, date string) (models.Day, error) {
	d, err := scanDay(s.queryRow(`SELECT `+dayColumns+` FROM days WHERE user_id = ? AND date = ?`, userID, date))
	if err != nil {
		return models.Day{}, notFound(err, "day %s", date)
	}
	return d, nil
}

func (s *Store) GetDayByID(userID, id string) (models.Day, error) {
	d, err := scanDay(s.queryRow(`SELECT `+dayColumns+` FROM days WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return models.Day{}, notFound(err, "day %s", id)
	}
	return d, nil
}

// ListDaysInRange returns the user's days with startDate <= date <= endDate,
// oldest first.
func (s *Store) ListDaysInRange(userID, startDate, endDate string) ([]models.Day, error) {
	rows, err := s.query(`
		SELECT `+dayColumns+` FROM days
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	defer rows.Close()

	var out []models.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpsertDaySelection sets (or clears, for nil) the selected work unit on the
// day for date, creating the day when needed.
func (s *Store) UpsertDaySelection(userID, date string, workUnitID *string) (models.Day, error) {
	now := formatTime(s.timestamp())
	_, err := s.exec(`
		INSERT INTO days (id, user_id, date, selected_work_unit_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE
		SET selected_work_unit_id = excluded.selected_work_unit_id, updated_at = excluded.updated_at`,
		newID(), userID, date, nullString(workUnitID), now, now,
	)
	if err != nil {
		return models.Day{}, fmt.Errorf("failed to save selection for %s: %w", date, err)
	}
	return s.GetDay(userID, date)
}

func (s *Store) UpdateDailyIntent(userID, dayID, intent string) (models.Day, error) {
	err := s.execOne("day "+dayID,
		`UPDATE days SET daily_intent = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		intent, formatTime(s.timestamp()), dayID, userID,
	)
	if err != nil {
		return models.Day{}, err
	}
	return s.GetDayByID(userID, dayID)
}

func (s *Store) UpdateHorizon(userID, dayID string, horizon models.HorizonType, content string) (models.Day, error) {
	column := horizon.Column()
	if column == "" {
		return models.Day{}, apperrors.Invalidf("unknown horizon %q", horizon)
	}

	// column comes from a fixed whitelist, never from input.
	err := s.execOne("day "+dayID,
		`UPDATE days SET `+column+` = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		content, formatTime(s.timestamp()), dayID, userID,
	)
	if err != nil {
		return models.Day{}, err
	}
	return s.GetDayByID(userID, dayID)
}
