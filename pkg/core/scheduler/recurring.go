package scheduler

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// ProcessRecurring applies standing weekly commitments before any
// automatic allocation, seeding the state. Recurring assignments are
// trusted overrides: no eligibility check runs here. They are processed
// in input order with first-wins conflict resolution, and any that cannot
// be matched to a template are skipped with a warning.
func ProcessRecurring(
	logger *zap.Logger,
	state *State,
	recurring []model.RecurringAssignment,
	week []time.Time,
) ([]string, error) {
	var warnings []string

	for _, ra := range recurring {
		date, err := timeutil.DateForWeekday(ra.Weekday, week)
		if err != nil {
			if errors.Is(err, timeutil.ErrInvalidWeek) {
				return warnings, err
			}
			warnings = append(warnings, fmt.Sprintf(
				"recurring assignment for worker %s skipped: %v", ra.WorkerID, err))
			continue
		}

		if state.IsClosedDate(date) {
			logger.Info("Skipping recurring assignment on closed date",
				zap.String("worker_id", ra.WorkerID),
				zap.String("date", timeutil.DateKey(date)))
			continue
		}

		// First-wins: an earlier recurring assignment already committed
		// this worker for the date
		if state.IsWorkerBusy(ra.WorkerID, date) {
			warnings = append(warnings, fmt.Sprintf(
				"recurring assignment for worker %s on %s skipped: worker already committed that day",
				ra.WorkerID, ra.Weekday))
			continue
		}

		tpl, found := matchTemplate(state.Templates(), ra)
		if !found {
			warnings = append(warnings, fmt.Sprintf(
				"recurring assignment for worker %s on %s (%s-%s) skipped: no matching template",
				ra.WorkerID, ra.Weekday, ra.Start, ra.End))
			continue
		}

		duration := timeutil.SpanHours(tpl.Start, tpl.End)
		if tpl.End.Before(tpl.Start) {
			logger.Warn("Template end time precedes start, treating duration as zero",
				zap.String("template_id", tpl.ID),
				zap.String("start", tpl.Start.String()),
				zap.String("end", tpl.End.String()))
		}

		assignmentType := ra.Type
		if assignmentType == "" {
			assignmentType = model.AssignmentRegular
		}

		shift := newShift(tpl, date, ra.WorkerID, true)
		assignment := newAssignment(shift, ra.WorkerID, assignmentType)
		state.RecordAssignment(shift, assignment, tpl, duration)

		logger.Debug("Applied recurring assignment",
			zap.String("worker_id", ra.WorkerID),
			zap.String("template_id", tpl.ID),
			zap.String("date", timeutil.DateKey(date)))
	}

	return warnings, nil
}

// matchTemplate finds the template whose location, position, weekday set,
// and exact start/end times match the recurring assignment
func matchTemplate(templates []model.ShiftTemplate, ra model.RecurringAssignment) (model.ShiftTemplate, bool) {
	for _, tpl := range templates {
		if tpl.LocationID == ra.LocationID &&
			tpl.PositionID == ra.PositionID &&
			tpl.AppliesOn(ra.Weekday) &&
			tpl.Start == ra.Start &&
			tpl.End == ra.End {
			return tpl, true
		}
	}
	return model.ShiftTemplate{}, false
}
