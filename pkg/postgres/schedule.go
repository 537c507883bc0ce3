package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jzsun22/orvia-scheduler/pkg/db"
)

// retentionDays is how long shifts from past weeks are kept before the
// save path prunes them
const retentionDays = 28

// GetExternalCommitments retrieves (worker, date) pairs for shifts stored
// at locations other than the given one within the date range
func (d *DB) GetExternalCommitments(ctx context.Context, locationID string, weekStart, weekEnd time.Time) ([]db.WorkerCommitment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT DISTINCT worker_id, to_char(shift_date, 'YYYY-MM-DD')
		FROM scheduled_shifts
		WHERE location_id <> $1
		  AND worker_id IS NOT NULL
		  AND shift_date BETWEEN $2 AND $3
	`, locationID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query external commitments: %w", err)
	}
	defer rows.Close()

	var commitments []db.WorkerCommitment
	for rows.Next() {
		var c db.WorkerCommitment
		if err := rows.Scan(&c.WorkerID, &c.Date); err != nil {
			return nil, fmt.Errorf("failed to scan external commitment: %w", err)
		}
		commitments = append(commitments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating external commitments: %w", err)
	}

	return commitments, nil
}

// SaveSchedule stores a generated week. Steps run in order: prune shifts
// older than the retention window, clear the target week so regeneration
// replaces rather than duplicates, then bulk-insert shifts and
// assignments. Deletes are not rolled back when a later step fails; the
// error surfaces to the caller.
func (d *DB) SaveSchedule(ctx context.Context, locationID string, weekDates []time.Time, shifts []db.ScheduledShift, assignments []db.ShiftAssignment) error {
	if len(weekDates) != 7 {
		return fmt.Errorf("expected 7 week dates, got %d", len(weekDates))
	}
	weekStart, weekEnd := weekDates[0], weekDates[6]

	pruneBefore := weekStart.AddDate(0, 0, -retentionDays)
	if _, err := d.pool.Exec(ctx, `
		DELETE FROM scheduled_shifts
		WHERE location_id = $1 AND shift_date < $2
	`, locationID, pruneBefore); err != nil {
		return fmt.Errorf("failed to prune old shifts: %w", err)
	}

	if _, err := d.pool.Exec(ctx, `
		DELETE FROM scheduled_shifts
		WHERE location_id = $1 AND shift_date BETWEEN $2 AND $3
	`, locationID, weekStart, weekEnd); err != nil {
		return fmt.Errorf("failed to clear target week: %w", err)
	}

	if len(shifts) > 0 {
		batch := &pgx.Batch{}
		for _, s := range shifts {
			var workerID *string
			if s.WorkerID != "" {
				workerID = &s.WorkerID
			}
			batch.Queue(`
				INSERT INTO scheduled_shifts
					(id, shift_date, template_id, worker_id, location_id, position_id,
					 start_time, end_time, is_recurring_generated)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, s.ID, s.Date, s.TemplateID, workerID, s.LocationID, s.PositionID,
				s.Start, s.End, s.IsRecurringGenerated)
		}
		if err := d.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert shifts: %w", err)
		}
	}

	if len(assignments) > 0 {
		batch := &pgx.Batch{}
		for _, a := range assignments {
			batch.Queue(`
				INSERT INTO shift_assignments
					(id, shift_id, worker_id, assignment_type, is_manual,
					 custom_start_time, custom_end_time, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, a.ID, a.ShiftID, a.WorkerID, a.Type, a.IsManual, a.Start, a.End, a.CreatedAt)
		}
		if err := d.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert assignments: %w", err)
		}
	}

	return nil
}
