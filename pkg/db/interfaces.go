package db

import (
	"context"
	"time"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// Database defines the data-fetch and persistence collaborators schedule
// generation depends on. The postgres implementation and the caching
// decorator both satisfy it.
type Database interface {
	// GetWorkers returns the full roster with position and location
	// eligibility associations attached
	GetWorkers(ctx context.Context) ([]model.Worker, error)

	// GetTemplatesForLocation returns all shift templates for a location
	GetTemplatesForLocation(ctx context.Context, locationID string) ([]model.ShiftTemplate, error)

	// GetRecurringAssignments returns the standing weekly commitments for
	// a location
	GetRecurringAssignments(ctx context.Context, locationID string) ([]model.RecurringAssignment, error)

	// GetOperatingHours returns the weekday-to-hours map for a location
	GetOperatingHours(ctx context.Context, locationID string) (map[timeutil.Weekday]model.OperatingHours, error)

	// GetExternalCommitments returns (worker, date) pairs for shifts
	// stored at locations other than the given one within the date range
	GetExternalCommitments(ctx context.Context, locationID string, weekStart, weekEnd time.Time) ([]WorkerCommitment, error)

	// SaveSchedule durably stores a generated week: prunes shifts older
	// than the retention window, clears the target week for idempotent
	// regeneration, then bulk-inserts the new shifts and assignments
	SaveSchedule(ctx context.Context, locationID string, weekDates []time.Time, shifts []ScheduledShift, assignments []ShiftAssignment) error
}
