package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

func TestRecordAssignment(t *testing.T) {
	tpl := testTemplate("tpl-1", []timeutil.Weekday{timeutil.Monday}, "09:00", "17:00")
	worker := testWorker("w-1", 2)
	state := NewState([]model.ShiftTemplate{tpl}, []model.Worker{worker})

	week := testWeek()
	monday := week[0]

	assert.False(t, state.IsSlotFilled(tpl.ID))
	assert.False(t, state.IsWorkerBusy(worker.ID, monday))
	assert.Equal(t, 0.0, state.HoursOf(worker.ID))

	shift := newShift(tpl, monday, worker.ID, false)
	assignment := newAssignment(shift, worker.ID, model.AssignmentRegular)
	state.RecordAssignment(shift, assignment, tpl, 8)

	assert.True(t, state.IsSlotFilled(tpl.ID))
	assert.True(t, state.IsSlotFilledOn(tpl.ID, monday))
	assert.False(t, state.IsSlotFilledOn(tpl.ID, week[1]))
	assert.True(t, state.IsWorkerBusy(worker.ID, monday))
	assert.False(t, state.IsWorkerBusy(worker.ID, week[1]))
	assert.Equal(t, 8.0, state.HoursOf(worker.ID))
	assert.Len(t, state.Shifts(), 1)
	assert.Len(t, state.Assignments(), 1)
}

func TestRecordAssignmentLeadFlags(t *testing.T) {
	opening := testLeadTemplate("tpl-open", []timeutil.Weekday{timeutil.Monday}, "08:00", "12:00", model.LeadOpening)
	closing := testLeadTemplate("tpl-close", []timeutil.Weekday{timeutil.Monday}, "17:00", "21:00", model.LeadClosing)
	lead := testLeadWorker("w-lead", 4)
	state := NewState([]model.ShiftTemplate{opening, closing}, []model.Worker{lead})

	monday := testWeek()[0]

	assert.False(t, state.HasOpeningLead(monday))
	assert.False(t, state.HasClosingLead(monday))

	shift := newShift(opening, monday, lead.ID, false)
	state.RecordAssignment(shift, newAssignment(shift, lead.ID, model.AssignmentLead), opening, 4)

	assert.True(t, state.HasOpeningLead(monday))
	assert.False(t, state.HasClosingLead(monday))
}

func TestRecordAssignmentRegularDoesNotFillLeadSlot(t *testing.T) {
	// A recurring assignment can place a worker on a lead template with a
	// regular type; that fills the slot but not the day's lead flag
	opening := testLeadTemplate("tpl-open", []timeutil.Weekday{timeutil.Monday}, "08:00", "12:00", model.LeadOpening)
	worker := testWorker("w-1", 2)
	state := NewState([]model.ShiftTemplate{opening}, []model.Worker{worker})

	monday := testWeek()[0]
	shift := newShift(opening, monday, worker.ID, true)
	state.RecordAssignment(shift, newAssignment(shift, worker.ID, model.AssignmentRegular), opening, 4)

	assert.True(t, state.IsSlotFilledOn(opening.ID, monday))
	assert.False(t, state.HasOpeningLead(monday))
}

func TestSetExternalCommitments(t *testing.T) {
	worker := testWorker("w-1", 2)
	state := NewState(nil, []model.Worker{worker})
	week := testWeek()

	state.SetExternalCommitments([]ExternalCommitment{
		{WorkerID: worker.ID, Date: week[2]},
	})

	assert.True(t, state.IsWorkerBusy(worker.ID, week[2]))
	assert.False(t, state.IsWorkerBusy(worker.ID, week[3]))
	assert.False(t, state.IsWorkerBusy("w-other", week[2]))
}

func TestClosedDates(t *testing.T) {
	worker := testWorker("w-1", 2)
	state := NewState(nil, []model.Worker{worker})
	week := testWeek()

	state.SetClosedDates([]time.Time{week[4]})

	assert.True(t, state.IsClosedDate(week[4]))
	assert.False(t, state.IsClosedDate(week[5]))
}

func TestUnfilledInstances(t *testing.T) {
	tpl1 := testTemplate("tpl-1", []timeutil.Weekday{timeutil.Monday, timeutil.Wednesday}, "09:00", "17:00")
	tpl2 := testTemplate("tpl-2", []timeutil.Weekday{timeutil.Friday}, "09:00", "17:00")
	worker := testWorker("w-1", 2)
	state := NewState([]model.ShiftTemplate{tpl1, tpl2}, []model.Worker{worker})
	week := testWeek()

	instances, err := state.UnfilledInstances(week)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	// Fill Monday's instance of tpl-1; only it should drop out
	shift := newShift(tpl1, week[0], worker.ID, false)
	state.RecordAssignment(shift, newAssignment(shift, worker.ID, model.AssignmentRegular), tpl1, 8)

	instances, err = state.UnfilledInstances(week)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, timeutil.Wednesday, instances[0].Weekday)
	assert.Equal(t, "tpl-1", instances[0].Template.ID)
	assert.Equal(t, timeutil.Friday, instances[1].Weekday)
	assert.Equal(t, "tpl-2", instances[1].Template.ID)
}

func TestUnfilledInstancesSkipsClosedDates(t *testing.T) {
	tpl := testTemplate("tpl-1", []timeutil.Weekday{timeutil.Monday, timeutil.Tuesday}, "09:00", "17:00")
	state := NewState([]model.ShiftTemplate{tpl}, nil)
	week := testWeek()

	state.SetClosedDates([]time.Time{week[0]})

	instances, err := state.UnfilledInstances(week)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, timeutil.Tuesday, instances[0].Weekday)
}

func TestUnfilledInstancesInvalidWeek(t *testing.T) {
	tpl := testTemplate("tpl-1", []timeutil.Weekday{timeutil.Monday}, "09:00", "17:00")
	state := NewState([]model.ShiftTemplate{tpl}, nil)

	_, err := state.UnfilledInstances(testWeek()[:4])
	require.Error(t, err)
	assert.ErrorIs(t, err, timeutil.ErrInvalidWeek)
}
