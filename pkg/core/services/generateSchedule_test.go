package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/internal/config"
	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
	"github.com/jzsun22/orvia-scheduler/pkg/db"
)

const (
	testLocation = "loc-downtown"
	testPosition = "barista"
)

// weekOf is a Wednesday inside the week of Monday 2026-03-02
var weekOf = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

type mockStore struct {
	workers     []model.Worker
	templates   []model.ShiftTemplate
	recurring   []model.RecurringAssignment
	hours       map[timeutil.Weekday]model.OperatingHours
	commitments []db.WorkerCommitment

	workersErr error
	saveErr    error

	saveCalls        int
	savedWeek        []time.Time
	savedShifts      []db.ScheduledShift
	savedAssignments []db.ShiftAssignment
}

func (m *mockStore) GetWorkers(ctx context.Context) ([]model.Worker, error) {
	return m.workers, m.workersErr
}

func (m *mockStore) GetTemplatesForLocation(ctx context.Context, locationID string) ([]model.ShiftTemplate, error) {
	return m.templates, nil
}

func (m *mockStore) GetRecurringAssignments(ctx context.Context, locationID string) ([]model.RecurringAssignment, error) {
	return m.recurring, nil
}

func (m *mockStore) GetOperatingHours(ctx context.Context, locationID string) (map[timeutil.Weekday]model.OperatingHours, error) {
	return m.hours, nil
}

func (m *mockStore) GetExternalCommitments(ctx context.Context, locationID string, weekStart, weekEnd time.Time) ([]db.WorkerCommitment, error) {
	return m.commitments, nil
}

func (m *mockStore) SaveSchedule(ctx context.Context, locationID string, weekDates []time.Time, shifts []db.ScheduledShift, assignments []db.ShiftAssignment) error {
	m.saveCalls++
	m.savedWeek = weekDates
	m.savedShifts = shifts
	m.savedAssignments = assignments
	return m.saveErr
}

func clk(s string) timeutil.Clock {
	return timeutil.MustClock(s)
}

func testConfig() *config.Config {
	return &config.Config{DatabaseURL: "postgres://test"}
}

func stdHours() map[timeutil.Weekday]model.OperatingHours {
	hours := make(map[timeutil.Weekday]model.OperatingHours, len(timeutil.Weekdays))
	for _, day := range timeutil.Weekdays {
		hours[day] = model.OperatingHours{
			Open:          clk("08:00"),
			Close:         clk("21:00"),
			MorningCutoff: clk("12:00"),
		}
	}
	return hours
}

func rosterWorker(id string, level model.JobLevel) model.Worker {
	avail := make(map[timeutil.Weekday][]model.Availability, len(timeutil.Weekdays))
	for _, day := range timeutil.Weekdays {
		avail[day] = []model.Availability{model.AvailabilityAllDay}
	}
	return model.Worker{
		ID:           id,
		FirstName:    "Worker",
		LastName:     id,
		Level:        level,
		Availability: avail,
		PositionIDs:  []string{testPosition},
		LocationIDs:  []string{testLocation},
	}
}

func mondayTemplate(id string) model.ShiftTemplate {
	return model.ShiftTemplate{
		ID:         id,
		LocationID: testLocation,
		PositionID: testPosition,
		Weekdays:   []timeutil.Weekday{timeutil.Monday},
		Start:      clk("09:00"),
		End:        clk("17:00"),
	}
}

func TestGenerateSchedule(t *testing.T) {
	store := &mockStore{
		workers:   []model.Worker{rosterWorker("w-1", 2)},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:     stdHours(),
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	assert.True(t, result.Success)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.UnassignedSlots)
	assert.Equal(t, testLocation, result.LocationID)
	require.Len(t, result.WeekDates, 7)
	assert.Equal(t, "2026-03-02", timeutil.DateKey(result.WeekDates[0]))

	require.Len(t, result.Shifts, 1)
	assert.Equal(t, "w-1", result.Shifts[0].WorkerID)

	assert.Equal(t, 1, store.saveCalls)
	require.Len(t, store.savedShifts, 1)
	saved := store.savedShifts[0]
	assert.Equal(t, "2026-03-02", saved.Date)
	assert.Equal(t, "09:00", saved.Start)
	assert.Equal(t, "17:00", saved.End)
	assert.Equal(t, "w-1", saved.WorkerID)
	require.Len(t, store.savedAssignments, 1)
	assert.Equal(t, saved.ID, store.savedAssignments[0].ShiftID)
	assert.Equal(t, "regular", store.savedAssignments[0].Type)
}

func TestGenerateScheduleNoTemplates(t *testing.T) {
	store := &mockStore{
		workers: []model.Worker{rosterWorker("w-1", 2)},
		hours:   stdHours(),
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "no shift templates")
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateScheduleWorkerFetchFailure(t *testing.T) {
	store := &mockStore{
		workersErr: errors.New("connection refused"),
		templates:  []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:      stdHours(),
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "failed to fetch workers")
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateScheduleSaveFailure(t *testing.T) {
	store := &mockStore{
		workers:   []model.Worker{rosterWorker("w-1", 2)},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:     stdHours(),
		saveErr:   errors.New("disk full"),
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "failed to save schedule")
	assert.Equal(t, 1, store.saveCalls)
}

func TestGenerateScheduleFiltersRoster(t *testing.T) {
	inactive := rosterWorker("w-inactive", 7)
	inactive.Inactive = true
	elsewhere := rosterWorker("w-elsewhere", 6)
	elsewhere.LocationIDs = []string{"loc-uptown"}
	active := rosterWorker("w-active", 1)

	store := &mockStore{
		workers:   []model.Worker{inactive, elsewhere, active},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:     stdHours(),
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	assert.True(t, result.Success)
	require.Len(t, result.Shifts, 1)
	assert.Equal(t, "w-active", result.Shifts[0].WorkerID)
}

func TestGenerateScheduleTieProducesUnassignedSlot(t *testing.T) {
	store := &mockStore{
		workers:   []model.Worker{rosterWorker("w-a", 2), rosterWorker("w-b", 2)},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:     stdHours(),
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	// The run still succeeds and persists; the slot is reported unfilled
	assert.True(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "tie between")
	require.Len(t, result.UnassignedSlots, 1)
	slot := result.UnassignedSlots[0]
	assert.Equal(t, "tpl-1", slot.TemplateID)
	assert.Equal(t, timeutil.Monday, slot.Weekday)
	assert.Nil(t, slot.LeadType)
	assert.Empty(t, result.Shifts)
	assert.Equal(t, 1, store.saveCalls)
}

func TestGenerateScheduleExternalCommitmentBlocksWorker(t *testing.T) {
	store := &mockStore{
		workers:   []model.Worker{rosterWorker("w-1", 2)},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:     stdHours(),
		commitments: []db.WorkerCommitment{
			{WorkerID: "w-1", Date: "2026-03-02"},
		},
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	assert.True(t, result.Success)
	assert.Empty(t, result.Shifts)
	require.Len(t, result.UnassignedSlots, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no eligible worker")
}

func TestGenerateScheduleRecurringTakesPrecedence(t *testing.T) {
	junior := rosterWorker("w-junior", 1)
	senior := rosterWorker("w-senior", 5)

	store := &mockStore{
		workers:   []model.Worker{junior, senior},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:     stdHours(),
		recurring: []model.RecurringAssignment{
			{
				WorkerID:   junior.ID,
				LocationID: testLocation,
				PositionID: testPosition,
				Weekday:    timeutil.Monday,
				Start:      clk("09:00"),
				End:        clk("17:00"),
			},
		},
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	assert.True(t, result.Success)
	require.Len(t, result.Shifts, 1)
	assert.Equal(t, junior.ID, result.Shifts[0].WorkerID)
	assert.True(t, result.Shifts[0].IsRecurringGenerated)
}

func TestGenerateScheduleClosedDateExcludesInstances(t *testing.T) {
	cfg := testConfig()
	cfg.ClosedDates = []config.ClosedDateRule{
		{RRule: "FREQ=WEEKLY;BYDAY=MO", Reason: "deep clean"},
	}

	store := &mockStore{
		workers:   []model.Worker{rosterWorker("w-1", 2)},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
		hours:     stdHours(),
	}

	result := GenerateSchedule(context.Background(), store, cfg, zap.NewNop(), testLocation, weekOf)

	// The Monday instance vanishes entirely: no shift, no unassigned slot
	assert.True(t, result.Success)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Shifts)
	assert.Empty(t, result.UnassignedSlots)
	assert.Equal(t, 1, store.saveCalls)
}

func TestGenerateSchedulePairedShiftAtDesignatedLocation(t *testing.T) {
	first := mondayTemplate("tpl-first")
	first.Start, first.End = clk("09:30"), clk("12:00")
	second := mondayTemplate("tpl-second")
	second.Start, second.End = clk("12:00"), clk("17:00")

	cfg := testConfig()
	cfg.PairedShift = &config.PairedShiftRule{
		LocationID:  testLocation,
		PositionID:  testPosition,
		FirstStart:  "09:30",
		FirstEnd:    "12:00",
		SecondStart: "12:00",
		SecondEnd:   "17:00",
	}

	store := &mockStore{
		workers:   []model.Worker{rosterWorker("w-1", 2)},
		templates: []model.ShiftTemplate{first, second},
		hours:     stdHours(),
	}

	result := GenerateSchedule(context.Background(), store, cfg, zap.NewNop(), testLocation, weekOf)

	assert.True(t, result.Success)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Shifts, 2)
	assert.Equal(t, "w-1", result.Shifts[0].WorkerID)
	assert.Equal(t, "w-1", result.Shifts[1].WorkerID)
}

func TestGenerateScheduleNoOperatingHoursWarns(t *testing.T) {
	store := &mockStore{
		workers:   []model.Worker{rosterWorker("w-1", 2)},
		templates: []model.ShiftTemplate{mondayTemplate("tpl-1")},
	}

	result := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), testLocation, weekOf)

	// Without hours no day is schedulable, but the run itself completes
	assert.True(t, result.Success)
	assert.Contains(t, result.Warnings[0], "no operating hours")
	assert.Empty(t, result.Shifts)
	require.Len(t, result.UnassignedSlots, 1)
}

func TestClosedDatesForWeek(t *testing.T) {
	weekArr := timeutil.WeekRange(weekOf)
	week := weekArr[:]

	tests := []struct {
		name  string
		rules []config.ClosedDateRule
		want  []string
	}{
		{"no rules", nil, nil},
		{"weekly match", []config.ClosedDateRule{{RRule: "FREQ=WEEKLY;BYDAY=WE"}}, []string{"2026-03-04"}},
		{
			name: "duplicate matches collapse",
			rules: []config.ClosedDateRule{
				{RRule: "FREQ=WEEKLY;BYDAY=WE"},
				{RRule: "FREQ=DAILY;COUNT=30"},
			},
			want: []string{
				"2026-03-04",
				"2026-03-02", "2026-03-03", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed := closedDatesForWeek(tt.rules, week)
			var got []string
			for _, d := range closed {
				got = append(got, timeutil.DateKey(d))
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}
