package scheduler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// AssignDynamic fills the remaining non-lead instances. Every worker
// passing the eligibility predicate is a candidate; ranking is job level
// descending then current assigned hours ascending, spreading hours
// toward less-loaded workers at the same seniority. An exact tie at the
// top (same level and same hours) leaves the slot unassigned with a
// warning.
func AssignDynamic(
	logger *zap.Logger,
	state *State,
	instances []Instance,
	workers []model.Worker,
	hours map[timeutil.Weekday]model.OperatingHours,
) []string {
	var warnings []string

	for _, inst := range instances {
		tpl := inst.Template
		if tpl.LeadType != nil {
			continue
		}

		dayHours := operatingHoursFor(hours, inst.Weekday)

		var pool []model.Worker
		for _, w := range workers {
			if IsEligible(w, tpl, inst.Date, state, dayHours) {
				pool = append(pool, w)
			}
		}

		if len(pool) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"no eligible worker for %s shift on %s (%s-%s)",
				tpl.PositionID, inst.Weekday, tpl.Start, tpl.End))
			continue
		}

		ranked := rankCandidates(state, pool)
		if hasExactTie(state, ranked) {
			warnings = append(warnings, fmt.Sprintf(
				"%s shift on %s left unassigned: tie between %s",
				tpl.PositionID, inst.Weekday, strings.Join(workerIDs(exactTieGroup(state, ranked)), ", ")))
			continue
		}

		winner := ranked[0]
		duration := timeutil.SpanHours(tpl.Start, tpl.End)
		if tpl.End.Before(tpl.Start) {
			logger.Warn("Template end time precedes start, treating duration as zero",
				zap.String("template_id", tpl.ID))
		}

		shift := newShift(tpl, inst.Date, winner.ID, false)
		state.RecordAssignment(shift, newAssignment(shift, winner.ID, model.AssignmentRegular), tpl, duration)

		logger.Debug("Assigned dynamic shift",
			zap.String("worker_id", winner.ID),
			zap.String("template_id", tpl.ID),
			zap.String("date", timeutil.DateKey(inst.Date)))
	}

	return warnings
}
