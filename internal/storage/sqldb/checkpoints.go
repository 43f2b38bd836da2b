package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/dailyos/internal/models"
)

const checkpointColumns = `c.id, c.user_id, c.day_id, c.work_unit_id, c.completed_summary, c.next_step, c.blockers, c.mood, c.created_at`

func scanCheckpoint(row scanner, extra ...any) (models.Checkpoint, error) {
	var cp models.Checkpoint
	var workUnitID sql.NullString
	var mood, createdAt string

	dest := []any{&cp.ID, &cp.UserID, &cp.DayID, &workUnitID, &cp.CompletedSummary, &cp.NextStep, &cp.Blockers, &mood, &createdAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Checkpoint{}, err
	}
	cp.WorkUnitID = stringPtr(workUnitID)
	cp.Mood = models.Mood(mood)

	var err error
	if cp.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Checkpoint{}, err
	}
	return cp, nil
}

func (s *Store) scanCheckpointsWithDate(query string, args ...any) ([]models.CheckpointWithDate, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []models.CheckpointWithDate
	for rows.Next() {
		var date string
		cp, err := scanCheckpoint(rows, &date)
		if err != nil {
			return nil, err
		}
		out = append(out, models.CheckpointWithDate{Checkpoint: cp, Date: date})
	}
	return out, rows.Err()
}

// UpsertCheckpoint inserts the checkpoint or, when the day already has one,
// overwrites its content in place. The original id and created_at survive.
func (s *Store) UpsertCheckpoint(cp models.Checkpoint) (models.Checkpoint, error) {
	if cp.ID == "" {
		cp.ID = newID()
	}
	_, err := s.exec(`
		INSERT INTO checkpoints (id, user_id, day_id, work_unit_id, completed_summary, next_step, blockers, mood, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (day_id) DO UPDATE SET
			work_unit_id = excluded.work_unit_id,
			completed_summary = excluded.completed_summary,
			next_step = excluded.next_step,
			blockers = excluded.blockers,
			mood = excluded.mood`,
		cp.ID, cp.UserID, cp.DayID, nullString(cp.WorkUnitID), cp.CompletedSummary, cp.NextStep, cp.Blockers,
		string(cp.Mood), formatTime(s.timestamp()),
	)
	if err != nil {
		return models.Checkpoint{}, fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return s.GetCheckpointForDay(cp.UserID, cp.DayID)
}

func (s *Store) GetCheckpointForDay(userID, dayID string) (models.Checkpoint, error) {
	cp, err := scanCheckpoint(s.queryRow(`
		SELECT `+checkpointColumns+` FROM checkpoints c
		WHERE c.day_id = ? AND c.user_id = ?`, dayID, userID))
	if err != nil {
		return models.Checkpoint{}, notFound(err, "checkpoint for day %s", dayID)
	}
	return cp, nil
}

func (s *Store) GetLatestCheckpointForWorkUnit(userID, workUnitID string) (models.Checkpoint, error) {
	cp, err := scanCheckpoint(s.queryRow(`
		SELECT `+checkpointColumns+` FROM checkpoints c
		WHERE c.user_id = ? AND c.work_unit_id = ?
		ORDER BY c.created_at DESC
		LIMIT 1`, userID, workUnitID))
	if err != nil {
		return models.Checkpoint{}, notFound(err, "checkpoint for work unit %s", workUnitID)
	}
	return cp, nil
}

// ListRecentCheckpoints returns up to limit checkpoints, newest day first.
func (s *Store) ListRecentCheckpoints(userID string, limit int) ([]models.CheckpointWithDate, error) {
	return s.scanCheckpointsWithDate(`
		SELECT `+checkpointColumns+`, d.date FROM checkpoints c
		JOIN days d ON d.id = c.day_id
		WHERE c.user_id = ?
		ORDER BY d.date DESC
		LIMIT ?`, userID, limit)
}

// ListCheckpointsInRange filters on the parent day's date, not on created_at,
// so a checkpoint written after midnight still counts for the day it closes.
func (s *Store) ListCheckpointsInRange(userID, startDate, endDate string) ([]models.CheckpointWithDate, error) {
	return s.scanCheckpointsWithDate(`
		SELECT `+checkpointColumns+`, d.date FROM checkpoints c
		JOIN days d ON d.id = c.day_id
		WHERE c.user_id = ? AND d.date >= ? AND d.date <= ?
		ORDER BY d.date ASC`, userID, startDate, endDate)
}
