// Package model defines the read-only inputs to schedule generation:
// the worker roster, shift templates, recurring assignments, and per-day
// operating hours for a location.
package model

import (
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// LeadType marks a template as an opening or closing lead slot
type LeadType string

const (
	LeadOpening LeadType = "opening"
	LeadClosing LeadType = "closing"
)

// AssignmentType classifies a worker's role on a shift
type AssignmentType string

const (
	AssignmentLead     AssignmentType = "lead"
	AssignmentRegular  AssignmentType = "regular"
	AssignmentTraining AssignmentType = "training"
)

// Availability is a worker's declared availability label for one weekday
type Availability string

const (
	AvailabilityNone      Availability = "none"
	AvailabilityMorning   Availability = "morning"
	AvailabilityAfternoon Availability = "afternoon"
	AvailabilityAllDay    Availability = "all_day"
)

// JobLevel is a worker's seniority, L1 (junior) through L7 (senior)
type JobLevel int

// Worker is one roster entry, fetched once per generation run and treated
// as read-only thereafter
type Worker struct {
	ID        string
	FirstName string
	LastName  string
	Level     JobLevel
	IsLead    bool

	// Availability maps each weekday to the worker's declared labels.
	// An absent weekday means unavailable that day.
	Availability map[timeutil.Weekday][]Availability

	// PreferredHours caps the worker's weekly assigned hours.
	// Nil means unbounded.
	PreferredHours *float64

	PositionIDs []string
	LocationIDs []string
	Inactive    bool
}

// Name returns the worker's display name
func (w Worker) Name() string {
	return w.FirstName + " " + w.LastName
}

// HasPosition reports whether the worker is eligible for the position
func (w Worker) HasPosition(positionID string) bool {
	for _, id := range w.PositionIDs {
		if id == positionID {
			return true
		}
	}
	return false
}

// HasLocation reports whether the worker is linked to the location
func (w Worker) HasLocation(locationID string) bool {
	for _, id := range w.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// ShiftTemplate is a recurring shift requirement. One template yields one
// shift instance per applicable weekday per week.
type ShiftTemplate struct {
	ID         string
	LocationID string
	PositionID string
	Weekdays   []timeutil.Weekday
	Start      timeutil.Clock
	End        timeutil.Clock

	// LeadType is nil for ordinary templates
	LeadType *LeadType
}

// AppliesOn reports whether the template has an instance on the weekday
func (t ShiftTemplate) AppliesOn(day timeutil.Weekday) bool {
	for _, d := range t.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// RecurringAssignment is a standing weekly commitment declared outside
// generation and applied before any automatic allocation
type RecurringAssignment struct {
	WorkerID   string
	LocationID string
	PositionID string
	Weekday    timeutil.Weekday
	Start      timeutil.Clock
	End        timeutil.Clock

	// Type defaults to regular when empty
	Type AssignmentType
}

// OperatingHours describes one weekday's hours at a location. MorningCutoff
// is the boundary used to interpret morning/afternoon availability labels.
type OperatingHours struct {
	Open          timeutil.Clock
	Close         timeutil.Clock
	MorningCutoff timeutil.Clock
}
