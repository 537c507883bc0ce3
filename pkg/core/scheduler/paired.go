package scheduler

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// ProcessPaired fills the one split-shift special case: two templates at
// a single location/position covering consecutive halves of the day that
// must always be staffed by the same worker. Runs after recurring
// processing so pre-committed halves are respected, and before generic
// allocation so the pair is never split by it.
func ProcessPaired(
	logger *zap.Logger,
	state *State,
	cfg PairedShiftConfig,
	workers []model.Worker,
	week []time.Time,
	hours map[timeutil.Weekday]model.OperatingHours,
) []string {
	var warnings []string

	first, firstOK := findTemplateByWindow(state.Templates(), cfg.LocationID, cfg.PositionID, cfg.FirstStart, cfg.FirstEnd)
	second, secondOK := findTemplateByWindow(state.Templates(), cfg.LocationID, cfg.PositionID, cfg.SecondStart, cfg.SecondEnd)
	if !firstOK || !secondOK {
		warnings = append(warnings, fmt.Sprintf(
			"paired shift templates not found for position %s at location %s",
			cfg.PositionID, cfg.LocationID))
		return warnings
	}

	combined := timeutil.SpanHours(first.Start, first.End) + timeutil.SpanHours(second.Start, second.End)

	for _, day := range timeutil.Weekdays {
		if !first.AppliesOn(day) || !second.AppliesOn(day) {
			continue
		}

		date, err := timeutil.DateForWeekday(day, week)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("paired shift on %s skipped: %v", day, err))
			continue
		}
		if state.IsClosedDate(date) {
			continue
		}

		firstFilled := state.IsSlotFilledOn(first.ID, date)
		secondFilled := state.IsSlotFilledOn(second.ID, date)
		if firstFilled || secondFilled {
			if firstFilled != secondFilled {
				warnings = append(warnings, fmt.Sprintf(
					"paired shift on %s: only one half pre-filled, leaving the other open", day))
			}
			continue
		}

		dayHours, ok := hours[day]
		if !ok {
			warnings = append(warnings, fmt.Sprintf(
				"paired shift on %s skipped: no operating hours for that day", day))
			continue
		}

		candidates := pairedCandidates(state, cfg, workers, date, day, dayHours, first.Start, second.End, combined)
		if len(candidates) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"no eligible worker for paired shift on %s", day))
			continue
		}

		ranked := rankCandidates(state, candidates)
		if hasExactTie(state, ranked) {
			warnings = append(warnings, fmt.Sprintf(
				"paired shift on %s left unassigned: tie between %s",
				day, strings.Join(workerIDs(exactTieGroup(state, ranked)), ", ")))
			continue
		}

		winner := ranked[0]

		// Both halves are recorded in the same step; there is no partial
		// success within this phase.
		firstShift := newShift(first, date, winner.ID, false)
		state.RecordAssignment(firstShift, newAssignment(firstShift, winner.ID, model.AssignmentRegular), first, timeutil.SpanHours(first.Start, first.End))

		secondShift := newShift(second, date, winner.ID, false)
		state.RecordAssignment(secondShift, newAssignment(secondShift, winner.ID, model.AssignmentRegular), second, timeutil.SpanHours(second.Start, second.End))

		logger.Debug("Assigned paired shift",
			zap.String("worker_id", winner.ID),
			zap.String("date", timeutil.DateKey(date)),
			zap.Float64("combined_hours", combined))
	}

	return warnings
}

// pairedCandidates builds the pool for a paired shift: workers holding the
// special position and location, free that date, within their hours cap
// for the combined duration, and available across the full combined window
func pairedCandidates(
	state *State,
	cfg PairedShiftConfig,
	workers []model.Worker,
	date time.Time,
	day timeutil.Weekday,
	dayHours model.OperatingHours,
	windowStart, windowEnd timeutil.Clock,
	combinedHours float64,
) []model.Worker {
	var pool []model.Worker
	for _, w := range workers {
		if !w.HasPosition(cfg.PositionID) || !w.HasLocation(cfg.LocationID) {
			continue
		}
		if state.IsWorkerBusy(w.ID, date) {
			continue
		}
		if w.PreferredHours != nil && state.HoursOf(w.ID)+combinedHours > *w.PreferredHours {
			continue
		}
		// One combined-range check, not two per-half checks
		if !availabilityCovers(w.Availability[day], windowStart, windowEnd, dayHours.MorningCutoff) {
			continue
		}
		pool = append(pool, w)
	}
	return pool
}

// findTemplateByWindow locates a template by location, position, and exact
// time window
func findTemplateByWindow(templates []model.ShiftTemplate, locationID, positionID string, start, end timeutil.Clock) (model.ShiftTemplate, bool) {
	for _, tpl := range templates {
		if tpl.LocationID == locationID &&
			tpl.PositionID == positionID &&
			tpl.Start == start &&
			tpl.End == end {
			return tpl, true
		}
	}
	return model.ShiftTemplate{}, false
}
