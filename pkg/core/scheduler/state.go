package scheduler

import (
	"time"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// commitment keys the (worker, date) pairs already committed to a shift
type commitment struct {
	workerID string
	date     string
}

// leadSlots tracks which lead slots are filled for one date
type leadSlots struct {
	opening bool
	closing bool
}

// ExternalCommitment is a worker's pre-existing shift at another location
// in the target week, prefetched so generation can avoid cross-location
// double-booking
type ExternalCommitment struct {
	WorkerID string
	Date     time.Time
}

// State is the mutable ledger for one generation run. It is exclusively
// owned by the run that created it and must not be shared across runs.
type State struct {
	templates   []model.ShiftTemplate
	shifts      []*ScheduledShift
	assignments []*ShiftAssignment
	hours       map[string]float64
	committed   map[commitment]bool
	external    map[commitment]bool
	fulfilled   map[string]map[string]bool
	leads       map[string]*leadSlots
	closedDates map[string]bool
}

// NewState builds a fresh State seeded with the location's templates and
// active worker roster. Worker hours start at zero.
func NewState(templates []model.ShiftTemplate, workers []model.Worker) *State {
	hours := make(map[string]float64, len(workers))
	for _, w := range workers {
		hours[w.ID] = 0
	}
	return &State{
		templates:   templates,
		shifts:      []*ScheduledShift{},
		assignments: []*ShiftAssignment{},
		hours:       hours,
		committed:   make(map[commitment]bool),
		external:    make(map[commitment]bool),
		fulfilled:   make(map[string]map[string]bool),
		leads:       make(map[string]*leadSlots),
		closedDates: make(map[string]bool),
	}
}

// SetExternalCommitments seeds the cross-location conflict guard with a
// worker's shifts already stored at other locations for the same week
func (s *State) SetExternalCommitments(commitments []ExternalCommitment) {
	for _, c := range commitments {
		s.external[commitment{workerID: c.WorkerID, date: timeutil.DateKey(c.Date)}] = true
	}
}

// SetClosedDates marks dates the location is closed; instances on these
// dates are excluded from generation
func (s *State) SetClosedDates(dates []time.Time) {
	for _, d := range dates {
		s.closedDates[timeutil.DateKey(d)] = true
	}
}

// IsClosedDate reports whether the location is closed on the date
func (s *State) IsClosedDate(date time.Time) bool {
	return s.closedDates[timeutil.DateKey(date)]
}

// RecordAssignment commits a shift and its assignment into the ledger:
// the worker's hour total grows by durationHours, the (template, date)
// slot is marked fulfilled, the (worker, date) pair is marked committed,
// and for lead assignments the date's lead flag is set according to the
// template's lead type (the template, not the assignment, is the
// authority on which lead slot this is).
func (s *State) RecordAssignment(shift *ScheduledShift, assignment *ShiftAssignment, tpl model.ShiftTemplate, durationHours float64) {
	s.shifts = append(s.shifts, shift)
	s.assignments = append(s.assignments, assignment)
	s.hours[assignment.WorkerID] += durationHours

	dateKey := timeutil.DateKey(shift.Date)
	if s.fulfilled[tpl.ID] == nil {
		s.fulfilled[tpl.ID] = make(map[string]bool)
	}
	s.fulfilled[tpl.ID][dateKey] = true
	s.committed[commitment{workerID: assignment.WorkerID, date: dateKey}] = true

	if assignment.Type == model.AssignmentLead && tpl.LeadType != nil {
		slots := s.leadSlotsFor(dateKey)
		switch *tpl.LeadType {
		case model.LeadOpening:
			slots.opening = true
		case model.LeadClosing:
			slots.closing = true
		}
	}
}

func (s *State) leadSlotsFor(dateKey string) *leadSlots {
	slots, ok := s.leads[dateKey]
	if !ok {
		slots = &leadSlots{}
		s.leads[dateKey] = slots
	}
	return slots
}

// HoursOf returns the worker's cumulative assigned hours this run
func (s *State) HoursOf(workerID string) float64 {
	return s.hours[workerID]
}

// IsSlotFilled reports whether any date has been filled for the template
func (s *State) IsSlotFilled(templateID string) bool {
	return len(s.fulfilled[templateID]) > 0
}

// IsSlotFilledOn reports whether the template is filled on the exact date
func (s *State) IsSlotFilledOn(templateID string, date time.Time) bool {
	return s.fulfilled[templateID][timeutil.DateKey(date)]
}

// HasOpeningLead reports whether the date's opening lead slot is filled
func (s *State) HasOpeningLead(date time.Time) bool {
	slots, ok := s.leads[timeutil.DateKey(date)]
	return ok && slots.opening
}

// HasClosingLead reports whether the date's closing lead slot is filled
func (s *State) HasClosingLead(date time.Time) bool {
	slots, ok := s.leads[timeutil.DateKey(date)]
	return ok && slots.closing
}

// IsWorkerBusy reports whether the worker already has a committed shift on
// the date, either from this run or from a prefetched shift at another
// location in the same week
func (s *State) IsWorkerBusy(workerID string, date time.Time) bool {
	key := commitment{workerID: workerID, date: timeutil.DateKey(date)}
	return s.committed[key] || s.external[key]
}

// UnfilledInstances expands every template across its applicable weekdays
// within the week and returns each instance not yet marked fulfilled.
// Closed dates are excluded. This is the work list consumed by the lead
// and dynamic assigners.
func (s *State) UnfilledInstances(week []time.Time) ([]Instance, error) {
	var instances []Instance
	for _, tpl := range s.templates {
		for _, day := range tpl.Weekdays {
			date, err := timeutil.DateForWeekday(day, week)
			if err != nil {
				return nil, err
			}
			if s.IsClosedDate(date) {
				continue
			}
			if s.IsSlotFilledOn(tpl.ID, date) {
				continue
			}
			instances = append(instances, Instance{Template: tpl, Date: date, Weekday: day})
		}
	}
	return instances, nil
}

// Shifts returns the shifts recorded so far, in insertion order
func (s *State) Shifts() []*ScheduledShift {
	return s.shifts
}

// Assignments returns the assignments recorded so far, in insertion order
func (s *State) Assignments() []*ShiftAssignment {
	return s.assignments
}

// Templates returns the template list the state was seeded with
func (s *State) Templates() []model.ShiftTemplate {
	return s.templates
}
