package scheduler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// AssignLeads fills the opening/closing lead instances, one per day per
// type. Candidates must carry the is_lead capability and pass the
// eligibility predicate. The highest job level wins; a level tie at the
// top always leaves the slot unassigned with a warning rather than
// guessing.
func AssignLeads(
	logger *zap.Logger,
	state *State,
	instances []Instance,
	workers []model.Worker,
	hours map[timeutil.Weekday]model.OperatingHours,
) []string {
	var warnings []string

	for _, inst := range instances {
		tpl := inst.Template
		if tpl.LeadType == nil {
			continue
		}

		// The day's lead slot may already be filled by a recurring lead
		// assignment or an earlier instance
		switch *tpl.LeadType {
		case model.LeadOpening:
			if state.HasOpeningLead(inst.Date) {
				continue
			}
		case model.LeadClosing:
			if state.HasClosingLead(inst.Date) {
				continue
			}
		}

		dayHours := operatingHoursFor(hours, inst.Weekday)

		var pool []model.Worker
		for _, w := range workers {
			if !w.IsLead {
				continue
			}
			if IsEligible(w, tpl, inst.Date, state, dayHours) {
				pool = append(pool, w)
			}
		}

		if len(pool) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"no eligible lead for %s %s shift on %s",
				tpl.PositionID, *tpl.LeadType, inst.Weekday))
			continue
		}

		ranked := rankCandidates(state, pool)
		topGroup := topLevelGroup(ranked)
		if len(topGroup) > 1 {
			warnings = append(warnings, fmt.Sprintf(
				"%s lead on %s left unassigned: level tie between %s",
				*tpl.LeadType, inst.Weekday, strings.Join(workerIDs(topGroup), ", ")))
			continue
		}

		winner := ranked[0]
		duration := timeutil.SpanHours(tpl.Start, tpl.End)
		if tpl.End.Before(tpl.Start) {
			logger.Warn("Template end time precedes start, treating duration as zero",
				zap.String("template_id", tpl.ID))
		}

		shift := newShift(tpl, inst.Date, winner.ID, false)
		state.RecordAssignment(shift, newAssignment(shift, winner.ID, model.AssignmentLead), tpl, duration)

		logger.Debug("Assigned lead shift",
			zap.String("worker_id", winner.ID),
			zap.String("template_id", tpl.ID),
			zap.String("date", timeutil.DateKey(inst.Date)))
	}

	return warnings
}

// operatingHoursFor looks up a weekday's hours, nil when the location has
// none configured for that day
func operatingHoursFor(hours map[timeutil.Weekday]model.OperatingHours, day timeutil.Weekday) *model.OperatingHours {
	if h, ok := hours[day]; ok {
		return &h
	}
	return nil
}
