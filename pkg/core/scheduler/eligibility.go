package scheduler

import (
	"time"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// IsEligible reports whether the worker can take the template's instance
// on the date given the current state. Checks short-circuit in order:
// operating hours present for the weekday, worker free that date, hours
// cap not exceeded, position held, location held, availability window fit.
//
// The is_lead capability flag is deliberately not checked here; callers
// needing lead semantics filter on it themselves.
func IsEligible(worker model.Worker, tpl model.ShiftTemplate, date time.Time, state *State, hours *model.OperatingHours) bool {
	if hours == nil {
		return false
	}

	if state.IsWorkerBusy(worker.ID, date) {
		return false
	}

	duration := timeutil.SpanHours(tpl.Start, tpl.End)
	if worker.PreferredHours != nil && state.HoursOf(worker.ID)+duration > *worker.PreferredHours {
		return false
	}

	if !worker.HasPosition(tpl.PositionID) {
		return false
	}

	if !worker.HasLocation(tpl.LocationID) {
		return false
	}

	day := timeutil.WeekdayOf(date)
	return availabilityCovers(worker.Availability[day], tpl.Start, tpl.End, hours.MorningCutoff)
}

// availabilityCovers reports whether any of the worker's labels for the
// day satisfies the shift window. all_day always satisfies; morning
// satisfies shifts ending at or before the cutoff; afternoon satisfies
// shifts starting at or after the cutoff.
func availabilityCovers(labels []model.Availability, start, end, cutoff timeutil.Clock) bool {
	for _, label := range labels {
		switch label {
		case model.AvailabilityAllDay:
			return true
		case model.AvailabilityMorning:
			if !end.After(cutoff) {
				return true
			}
		case model.AvailabilityAfternoon:
			if !start.Before(cutoff) {
				return true
			}
		}
	}
	return false
}
