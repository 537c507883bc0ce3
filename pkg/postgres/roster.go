package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// GetWorkers retrieves the full roster with position and location
// eligibility associations attached
func (d *DB) GetWorkers(ctx context.Context) ([]model.Worker, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT w.id, w.first_name, w.last_name, w.job_level, w.is_lead,
		       w.availability, w.preferred_hours_per_week, w.inactive,
		       COALESCE(array_agg(DISTINCT wp.position_id) FILTER (WHERE wp.position_id IS NOT NULL), '{}'),
		       COALESCE(array_agg(DISTINCT wl.location_id) FILTER (WHERE wl.location_id IS NOT NULL), '{}')
		FROM workers w
		LEFT JOIN worker_positions wp ON wp.worker_id = w.id
		LEFT JOIN worker_locations wl ON wl.worker_id = w.id
		GROUP BY w.id
		ORDER BY w.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		var w model.Worker
		var level int
		var availabilityJSON []byte
		if err := rows.Scan(&w.ID, &w.FirstName, &w.LastName, &level, &w.IsLead,
			&availabilityJSON, &w.PreferredHours, &w.Inactive,
			&w.PositionIDs, &w.LocationIDs); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		w.Level = model.JobLevel(level)

		w.Availability = make(map[timeutil.Weekday][]model.Availability)
		if len(availabilityJSON) > 0 {
			if err := json.Unmarshal(availabilityJSON, &w.Availability); err != nil {
				return nil, fmt.Errorf("failed to parse availability for worker %s: %w", w.ID, err)
			}
		}

		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workers: %w", err)
	}

	return workers, nil
}

// GetTemplatesForLocation retrieves all shift templates for a location
func (d *DB) GetTemplatesForLocation(ctx context.Context, locationID string) ([]model.ShiftTemplate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, location_id, position_id, weekdays,
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), lead_type
		FROM shift_templates
		WHERE location_id = $1
		ORDER BY id
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ShiftTemplate
	for rows.Next() {
		var tpl model.ShiftTemplate
		var weekdays []string
		var startStr, endStr string
		var leadType *string
		if err := rows.Scan(&tpl.ID, &tpl.LocationID, &tpl.PositionID, &weekdays,
			&startStr, &endStr, &leadType); err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}

		for _, dayStr := range weekdays {
			day, err := timeutil.ParseWeekday(dayStr)
			if err != nil {
				return nil, fmt.Errorf("template %s has invalid weekday: %w", tpl.ID, err)
			}
			tpl.Weekdays = append(tpl.Weekdays, day)
		}

		if tpl.Start, err = timeutil.ParseClock(startStr); err != nil {
			return nil, fmt.Errorf("template %s has invalid start time: %w", tpl.ID, err)
		}
		if tpl.End, err = timeutil.ParseClock(endStr); err != nil {
			return nil, fmt.Errorf("template %s has invalid end time: %w", tpl.ID, err)
		}

		if leadType != nil {
			lt := model.LeadType(*leadType)
			tpl.LeadType = &lt
		}

		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift templates: %w", err)
	}

	return templates, nil
}

// GetRecurringAssignments retrieves the standing weekly commitments for a
// location, in stable id order so conflict resolution is deterministic
func (d *DB) GetRecurringAssignments(ctx context.Context, locationID string) ([]model.RecurringAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT worker_id, location_id, position_id, weekday,
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), assignment_type
		FROM recurring_shift_assignments
		WHERE location_id = $1
		ORDER BY id
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.RecurringAssignment
	for rows.Next() {
		var ra model.RecurringAssignment
		var dayStr, startStr, endStr, typeStr string
		if err := rows.Scan(&ra.WorkerID, &ra.LocationID, &ra.PositionID, &dayStr,
			&startStr, &endStr, &typeStr); err != nil {
			return nil, fmt.Errorf("failed to scan recurring assignment: %w", err)
		}

		if ra.Weekday, err = timeutil.ParseWeekday(dayStr); err != nil {
			return nil, fmt.Errorf("recurring assignment for worker %s has invalid weekday: %w", ra.WorkerID, err)
		}
		if ra.Start, err = timeutil.ParseClock(startStr); err != nil {
			return nil, fmt.Errorf("recurring assignment for worker %s has invalid start time: %w", ra.WorkerID, err)
		}
		if ra.End, err = timeutil.ParseClock(endStr); err != nil {
			return nil, fmt.Errorf("recurring assignment for worker %s has invalid end time: %w", ra.WorkerID, err)
		}
		ra.Type = model.AssignmentType(typeStr)

		assignments = append(assignments, ra)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring assignments: %w", err)
	}

	return assignments, nil
}

// GetOperatingHours retrieves the weekday-to-hours map for a location
func (d *DB) GetOperatingHours(ctx context.Context, locationID string) (map[timeutil.Weekday]model.OperatingHours, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT weekday,
		       to_char(day_start, 'HH24:MI'), to_char(day_end, 'HH24:MI'), to_char(morning_cutoff, 'HH24:MI')
		FROM location_operating_hours
		WHERE location_id = $1
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operating hours: %w", err)
	}
	defer rows.Close()

	hours := make(map[timeutil.Weekday]model.OperatingHours)
	for rows.Next() {
		var dayStr, openStr, closeStr, cutoffStr string
		if err := rows.Scan(&dayStr, &openStr, &closeStr, &cutoffStr); err != nil {
			return nil, fmt.Errorf("failed to scan operating hours: %w", err)
		}

		day, err := timeutil.ParseWeekday(dayStr)
		if err != nil {
			return nil, fmt.Errorf("operating hours for location %s have invalid weekday: %w", locationID, err)
		}

		var oh model.OperatingHours
		if oh.Open, err = timeutil.ParseClock(openStr); err != nil {
			return nil, fmt.Errorf("invalid day start for location %s: %w", locationID, err)
		}
		if oh.Close, err = timeutil.ParseClock(closeStr); err != nil {
			return nil, fmt.Errorf("invalid day end for location %s: %w", locationID, err)
		}
		if oh.MorningCutoff, err = timeutil.ParseClock(cutoffStr); err != nil {
			return nil, fmt.Errorf("invalid morning cutoff for location %s: %w", locationID, err)
		}

		hours[day] = oh
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operating hours: %w", err)
	}

	return hours, nil
}
