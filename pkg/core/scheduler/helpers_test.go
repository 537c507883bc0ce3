package scheduler

import (
	"time"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// Shared fixtures for the scheduler tests. The week under test is
// Monday 2026-03-02 through Sunday 2026-03-08.

const (
	testLocation = "loc-downtown"
	testPosition = "barista"
)

func clk(s string) timeutil.Clock {
	return timeutil.MustClock(s)
}

func testWeek() []time.Time {
	week := timeutil.WeekRange(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	return week[:]
}

func allWeekHours() map[timeutil.Weekday]model.OperatingHours {
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

func allDayAvailability() map[timeutil.Weekday][]model.Availability {
	avail := make(map[timeutil.Weekday][]model.Availability, len(timeutil.Weekdays))
	for _, day := range timeutil.Weekdays {
		avail[day] = []model.Availability{model.AvailabilityAllDay}
	}
	return avail
}

func testWorker(id string, level model.JobLevel) model.Worker {
	return model.Worker{
		ID:           id,
		FirstName:    "Worker",
		LastName:     id,
		Level:        level,
		Availability: allDayAvailability(),
		PositionIDs:  []string{testPosition},
		LocationIDs:  []string{testLocation},
	}
}

func testLeadWorker(id string, level model.JobLevel) model.Worker {
	w := testWorker(id, level)
	w.IsLead = true
	return w
}

func testTemplate(id string, days []timeutil.Weekday, start, end string) model.ShiftTemplate {
	return model.ShiftTemplate{
		ID:         id,
		LocationID: testLocation,
		PositionID: testPosition,
		Weekdays:   days,
		Start:      clk(start),
		End:        clk(end),
	}
}

func testLeadTemplate(id string, days []timeutil.Weekday, start, end string, leadType model.LeadType) model.ShiftTemplate {
	tpl := testTemplate(id, days, start, end)
	tpl.LeadType = &leadType
	return tpl
}

func hoursPtr(h float64) *float64 {
	return &h
}
