package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/models"
	"github.com/ironcoach/ironcoach/internal/workout"
)

// InsertRecords appends personal records. Existing records are never
// updated or deleted; history is retained.
func (db *DB) InsertRecords(ctx context.Context, records []workout.PersonalRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `INSERT INTO personal_records (id, user_id, exercise_id, exercise_name,
		record_type, value, unit, achieved_at, notes, created_at) VALUES `
	args := make([]any, 0, len(records)*10)
	valueStrings := make([]string, 0, len(records))

	for i, rec := range records {
		r := models.RecordToRow(rec)
		base := i * 10
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		args = append(args, r.ID, r.UserID, r.ExerciseID, r.ExerciseName,
			r.RecordType, r.Value, r.Unit, r.AchievedAt, r.Notes, r.CreatedAt)
	}

	if _, err := db.Pool.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
		return fmt.Errorf("inserting personal records: %w", err)
	}
	return nil
}

// ListRecordsByUser retrieves a user's personal records, newest first,
// optionally filtered by exercise.
func (db *DB) ListRecordsByUser(ctx context.Context, userID uuid.UUID, exerciseID string) ([]workout.PersonalRecord, error) {
	query := `SELECT id, user_id, exercise_id, exercise_name, record_type, value, unit,
		 achieved_at, notes, created_at
		 FROM personal_records
		 WHERE user_id = $1`
	args := []any{userID}
	if exerciseID != "" {
		query += ` AND exercise_id = $2`
		args = append(args, exerciseID)
	}
	query += ` ORDER BY achieved_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying personal records: %w", err)
	}
	defer rows.Close()

	var records []workout.PersonalRecord
	for rows.Next() {
		var r models.RecordRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.ExerciseID, &r.ExerciseName, &r.RecordType,
			&r.Value, &r.Unit, &r.AchievedAt, &r.Notes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning personal record: %w", err)
		}
		records = append(records, models.RowToRecord(r))
	}
	return records, rows.Err()
}

// PriorBests returns a user's best value per exercise and record type, used
// to decide whether a finalized session set new records.
func (db *DB) PriorBests(ctx context.Context, userID uuid.UUID) (workout.PriorBests, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, record_type, MAX(value)
		 FROM personal_records
		 WHERE user_id = $1
		 GROUP BY exercise_id, record_type`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying prior bests: %w", err)
	}
	defer rows.Close()

	bests := workout.PriorBests{}
	for rows.Next() {
		var exerciseID, recordType string
		var value float64
		if err := rows.Scan(&exerciseID, &recordType, &value); err != nil {
			return nil, fmt.Errorf("scanning prior best: %w", err)
		}
		if bests[exerciseID] == nil {
			bests[exerciseID] = map[workout.RecordType]float64{}
		}
		bests[exerciseID][workout.RecordType(recordType)] = value
	}
	return bests, rows.Err()
}
