// Package scheduler implements weekly schedule generation: a greedy,
// deterministic, priority-ordered assignment of workers to shift template
// instances. Phases run in a fixed order (recurring, paired, leads,
// dynamic) against a shared State owned by a single generation run.
package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// ScheduledShift is one concrete shift occurrence produced by generation
type ScheduledShift struct {
	ID         string
	Date       time.Time
	TemplateID string

	// WorkerID is the primary worker, empty if the slot stayed unfilled
	WorkerID string

	LocationID string
	PositionID string
	Start      timeutil.Clock
	End        timeutil.Clock

	// IsRecurringGenerated marks shifts seeded from recurring assignments
	IsRecurringGenerated bool
}

// ShiftAssignment links a worker to a scheduled shift
type ShiftAssignment struct {
	ID       string
	ShiftID  string
	WorkerID string
	Type     model.AssignmentType

	// IsManual is false for everything generation produces; manual edits
	// outside generation set it
	IsManual bool

	// Start and End are the portion of the shift the worker covers.
	// Generation always sets them to the shift's own bounds.
	Start timeutil.Clock
	End   timeutil.Clock

	CreatedAt time.Time
}

// Instance is one concrete (template, date) occurrence within a target week
type Instance struct {
	Template model.ShiftTemplate
	Date     time.Time
	Weekday  timeutil.Weekday
}

// PairedShiftConfig identifies the one location/position whose two
// templates form a split shift that must be staffed by the same worker.
// Injected explicitly so the processor is testable with fabricated ids.
type PairedShiftConfig struct {
	LocationID  string
	PositionID  string
	FirstStart  timeutil.Clock
	FirstEnd    timeutil.Clock
	SecondStart timeutil.Clock
	SecondEnd   timeutil.Clock
}

// newShift builds a ScheduledShift for a template instance
func newShift(tpl model.ShiftTemplate, date time.Time, workerID string, recurring bool) *ScheduledShift {
	return &ScheduledShift{
		ID:                   uuid.New().String(),
		Date:                 date,
		TemplateID:           tpl.ID,
		WorkerID:             workerID,
		LocationID:           tpl.LocationID,
		PositionID:           tpl.PositionID,
		Start:                tpl.Start,
		End:                  tpl.End,
		IsRecurringGenerated: recurring,
	}
}

// newAssignment builds a ShiftAssignment covering the full shift bounds
func newAssignment(shift *ScheduledShift, workerID string, assignmentType model.AssignmentType) *ShiftAssignment {
	return &ShiftAssignment{
		ID:        uuid.New().String(),
		ShiftID:   shift.ID,
		WorkerID:  workerID,
		Type:      assignmentType,
		Start:     shift.Start,
		End:       shift.End,
		CreatedAt: time.Now().UTC(),
	}
}
