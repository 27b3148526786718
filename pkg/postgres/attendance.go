package postgres

import (
	"context"
	"fmt"

	"github.com/danlumempouw/voiceofsoul/pkg/db"
)

// GetAttendance retrieves the full attendance ledger
func (d *DB) GetAttendance(ctx context.Context) ([]db.AttendanceRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT user_id, event_id, status, reason, timestamp
		FROM attendance
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []db.AttendanceRecord
	for rows.Next() {
		var r db.AttendanceRecord
		if err := rows.Scan(&r.UserID, &r.EventID, &r.Status, &r.Reason, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}

	return records, nil
}

// UpsertAttendance inserts or overwrites the single row for (user, event).
// A resubmission always replaces the previous response; no history is kept.
func (d *DB) UpsertAttendance(ctx context.Context, record *db.AttendanceRecord) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO attendance (user_id, event_id, status, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, event_id)
		DO UPDATE SET status = EXCLUDED.status, reason = EXCLUDED.reason, timestamp = EXCLUDED.timestamp
	`, record.UserID, record.EventID, record.Status, record.Reason, record.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return nil
}

// DeleteAttendance removes the row for (user, event), reverting the pair to
// the derived pending state.
func (d *DB) DeleteAttendance(ctx context.Context, userID, eventID string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM attendance WHERE user_id = $1 AND event_id = $2
	`, userID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}
