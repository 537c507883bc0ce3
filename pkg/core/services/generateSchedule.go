package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/internal/config"
	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/scheduler"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
	"github.com/jzsun22/orvia-scheduler/pkg/db"
)

// GenerateScheduleStore defines the collaborator operations needed for
// one generation run: the prerequisite fetches and the final save
type GenerateScheduleStore interface {
	GetWorkers(ctx context.Context) ([]model.Worker, error)
	GetTemplatesForLocation(ctx context.Context, locationID string) ([]model.ShiftTemplate, error)
	GetRecurringAssignments(ctx context.Context, locationID string) ([]model.RecurringAssignment, error)
	GetOperatingHours(ctx context.Context, locationID string) (map[timeutil.Weekday]model.OperatingHours, error)
	GetExternalCommitments(ctx context.Context, locationID string, weekStart, weekEnd time.Time) ([]db.WorkerCommitment, error)
	SaveSchedule(ctx context.Context, locationID string, weekDates []time.Time, shifts []db.ScheduledShift, assignments []db.ShiftAssignment) error
}

// UnassignedSlot is a template instance that stayed unfilled after all
// phases ran
type UnassignedSlot struct {
	TemplateID string
	PositionID string
	LeadType   *model.LeadType
	Date       time.Time
	Weekday    timeutil.Weekday
}

// GenerateScheduleResult contains the outcome of one generation run
type GenerateScheduleResult struct {
	LocationID      string
	WeekDates       []time.Time
	Success         bool
	Warnings        []string
	UnassignedSlots []UnassignedSlot
	Shifts          []*scheduler.ScheduledShift
	Assignments     []*scheduler.ShiftAssignment
}

// GenerateSchedule runs the full generation pipeline for one location and
// week: fetch prerequisites, seed state, apply recurring assignments,
// fill the paired split shift, assign leads, assign everything else, and
// persist the result. Failures anywhere are folded into Warnings with
// Success=false; partial in-memory state is discarded and nothing is
// persisted unless every phase completed.
func GenerateSchedule(
	ctx context.Context,
	store GenerateScheduleStore,
	cfg *config.Config,
	logger *zap.Logger,
	locationID string,
	weekOf time.Time,
) *GenerateScheduleResult {
	weekArr := timeutil.WeekRange(weekOf)
	week := weekArr[:]

	result := &GenerateScheduleResult{
		LocationID: locationID,
		WeekDates:  week,
	}

	logger.Info("Starting schedule generation",
		zap.String("location_id", locationID),
		zap.String("week_start", timeutil.DateKey(week[0])))

	// Step 1: fetch prerequisites
	allWorkers, err := store.GetWorkers(ctx)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to fetch workers: %v", err))
	}
	logger.Debug("Fetched workers", zap.Int("count", len(allWorkers)))

	templates, err := store.GetTemplatesForLocation(ctx, locationID)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to fetch shift templates: %v", err))
	}
	logger.Debug("Fetched shift templates", zap.Int("count", len(templates)))

	if len(templates) == 0 {
		return fail(result, logger, fmt.Sprintf("no shift templates for location %s, nothing to generate", locationID))
	}

	recurring, err := store.GetRecurringAssignments(ctx, locationID)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to fetch recurring assignments: %v", err))
	}
	logger.Debug("Fetched recurring assignments", zap.Int("count", len(recurring)))

	hours, err := store.GetOperatingHours(ctx, locationID)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to fetch operating hours: %v", err))
	}
	if len(hours) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"no operating hours configured for location %s", locationID))
	}

	external, err := store.GetExternalCommitments(ctx, locationID, week[0], week[6])
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to fetch external commitments: %v", err))
	}
	logger.Debug("Fetched external commitments", zap.Int("count", len(external)))

	// Step 2: filter roster to this location's active workers
	active := filterActiveWorkers(allWorkers, locationID)
	if len(active) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"no active workers linked to location %s", locationID))
	}
	logger.Debug("Active workers for location", zap.Int("count", len(active)))

	// Step 3: build fresh state
	state := scheduler.NewState(templates, active)
	state.SetExternalCommitments(convertExternalCommitments(external, logger))

	closed := closedDatesForWeek(cfg.ClosedDates, week)
	if len(closed) > 0 {
		state.SetClosedDates(closed)
		logger.Info("Excluding closed dates from generation", zap.Int("count", len(closed)))
	}

	// Step 4: recurring assignments seed the state
	recurringWarnings, err := scheduler.ProcessRecurring(logger, state, recurring, week)
	result.Warnings = append(result.Warnings, recurringWarnings...)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("recurring assignment processing aborted: %v", err))
	}

	// Step 5: paired split shift, only at its designated location
	if cfg.PairedShift != nil && cfg.PairedShift.LocationID == locationID {
		pairedCfg, err := convertPairedRule(cfg.PairedShift)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("invalid paired shift configuration: %v", err))
		} else {
			result.Warnings = append(result.Warnings,
				scheduler.ProcessPaired(logger, state, pairedCfg, active, week, hours)...)
		}
	}

	// Step 6: lead slots
	instances, err := state.UnfilledInstances(week)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to expand template instances: %v", err))
	}
	result.Warnings = append(result.Warnings,
		scheduler.AssignLeads(logger, state, instances, active, hours)...)

	// Step 7: everything else
	instances, err = state.UnfilledInstances(week)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to expand template instances: %v", err))
	}
	result.Warnings = append(result.Warnings,
		scheduler.AssignDynamic(logger, state, instances, active, hours)...)

	// Step 8: collect leftovers
	remaining, err := state.UnfilledInstances(week)
	if err != nil {
		return fail(result, logger, fmt.Sprintf("failed to expand template instances: %v", err))
	}
	for _, inst := range remaining {
		result.UnassignedSlots = append(result.UnassignedSlots, UnassignedSlot{
			TemplateID: inst.Template.ID,
			PositionID: inst.Template.PositionID,
			LeadType:   inst.Template.LeadType,
			Date:       inst.Date,
			Weekday:    inst.Weekday,
		})
	}

	result.Shifts = state.Shifts()
	result.Assignments = state.Assignments()

	// Step 9: persist
	dbShifts := convertToDBShifts(result.Shifts)
	dbAssignments := convertToDBAssignments(result.Assignments)
	if err := store.SaveSchedule(ctx, locationID, week, dbShifts, dbAssignments); err != nil {
		return fail(result, logger, fmt.Sprintf("failed to save schedule: %v", err))
	}

	result.Success = true
	logger.Info("Schedule generation completed",
		zap.Int("shifts", len(result.Shifts)),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("unassigned_slots", len(result.UnassignedSlots)),
		zap.Int("warnings", len(result.Warnings)))

	return result
}

// fail marks the run unsuccessful with the given warning
func fail(result *GenerateScheduleResult, logger *zap.Logger, msg string) *GenerateScheduleResult {
	logger.Warn("Schedule generation failed", zap.String("reason", msg))
	result.Warnings = append(result.Warnings, msg)
	result.Success = false
	return result
}

// filterActiveWorkers keeps workers linked to the location that are not
// marked inactive
func filterActiveWorkers(workers []model.Worker, locationID string) []model.Worker {
	var active []model.Worker
	for _, w := range workers {
		if w.Inactive {
			continue
		}
		if !w.HasLocation(locationID) {
			continue
		}
		active = append(active, w)
	}
	return active
}

// convertExternalCommitments parses stored (worker, date) pairs into the
// state's cross-location conflict guard format
func convertExternalCommitments(commitments []db.WorkerCommitment, logger *zap.Logger) []scheduler.ExternalCommitment {
	result := make([]scheduler.ExternalCommitment, 0, len(commitments))
	for _, c := range commitments {
		date, err := time.Parse("2006-01-02", c.Date)
		if err != nil {
			logger.Warn("Skipping external commitment with unparseable date",
				zap.String("worker_id", c.WorkerID),
				zap.String("date", c.Date))
			continue
		}
		result = append(result, scheduler.ExternalCommitment{WorkerID: c.WorkerID, Date: date})
	}
	return result
}

// convertPairedRule parses the config's clock strings into the
// processor's typed configuration
func convertPairedRule(rule *config.PairedShiftRule) (scheduler.PairedShiftConfig, error) {
	var cfg scheduler.PairedShiftConfig
	var err error

	cfg.LocationID = rule.LocationID
	cfg.PositionID = rule.PositionID
	if cfg.FirstStart, err = timeutil.ParseClock(rule.FirstStart); err != nil {
		return cfg, err
	}
	if cfg.FirstEnd, err = timeutil.ParseClock(rule.FirstEnd); err != nil {
		return cfg, err
	}
	if cfg.SecondStart, err = timeutil.ParseClock(rule.SecondStart); err != nil {
		return cfg, err
	}
	if cfg.SecondEnd, err = timeutil.ParseClock(rule.SecondEnd); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// closedDatesForWeek expands the configured closed-date rules and returns
// the week's dates that match any of them. Rules were syntax-checked at
// config load, so unparseable rules are skipped here.
func closedDatesForWeek(rules []config.ClosedDateRule, week []time.Time) []time.Time {
	if len(rules) == 0 || len(week) != 7 {
		return nil
	}

	weekKeys := make(map[string]time.Time, len(week))
	for _, d := range week {
		weekKeys[timeutil.DateKey(d)] = d
	}

	searchStart := week[0].AddDate(0, 0, -7)
	searchEnd := week[6].AddDate(0, 0, 7)

	var closed []time.Time
	seen := make(map[string]bool)
	for _, r := range rules {
		rule, err := rrule.StrToRRule(r.RRule)
		if err != nil {
			continue
		}
		rule.DTStart(searchStart)

		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			key := occurrence.Format("2006-01-02")
			if date, inWeek := weekKeys[key]; inWeek && !seen[key] {
				closed = append(closed, date)
				seen[key] = true
			}
		}
	}
	return closed
}

// convertToDBShifts converts engine shifts to storage records
func convertToDBShifts(shifts []*scheduler.ScheduledShift) []db.ScheduledShift {
	result := make([]db.ScheduledShift, 0, len(shifts))
	for _, s := range shifts {
		result = append(result, db.ScheduledShift{
			ID:                   s.ID,
			Date:                 timeutil.DateKey(s.Date),
			TemplateID:           s.TemplateID,
			WorkerID:             s.WorkerID,
			LocationID:           s.LocationID,
			PositionID:           s.PositionID,
			Start:                s.Start.String(),
			End:                  s.End.String(),
			IsRecurringGenerated: s.IsRecurringGenerated,
		})
	}
	return result
}

// convertToDBAssignments converts engine assignments to storage records
func convertToDBAssignments(assignments []*scheduler.ShiftAssignment) []db.ShiftAssignment {
	result := make([]db.ShiftAssignment, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, db.ShiftAssignment{
			ID:        a.ID,
			ShiftID:   a.ShiftID,
			WorkerID:  a.WorkerID,
			Type:      string(a.Type),
			IsManual:  a.IsManual,
			Start:     a.Start.String(),
			End:       a.End.String(),
			CreatedAt: a.CreatedAt,
		})
	}
	return result
}
