package db

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// CachedDatabase wraps a Database with a TTL cache over the roster reads
// (workers, templates, operating hours). Generating several locations in
// a row reuses the same roster instead of refetching it. Writes and the
// conflict-sensitive reads pass straight through.
type CachedDatabase struct {
	inner Database
	cache *gocache.Cache
}

// NewCachedDatabase wraps inner with a cache whose entries expire after ttl
func NewCachedDatabase(inner Database, ttl time.Duration) *CachedDatabase {
	return &CachedDatabase{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// GetWorkers returns the cached roster, fetching on miss
func (c *CachedDatabase) GetWorkers(ctx context.Context) ([]model.Worker, error) {
	if cached, ok := c.cache.Get("workers"); ok {
		return cached.([]model.Worker), nil
	}
	workers, err := c.inner.GetWorkers(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set("workers", workers, gocache.DefaultExpiration)
	return workers, nil
}

// GetTemplatesForLocation returns the cached templates, fetching on miss
func (c *CachedDatabase) GetTemplatesForLocation(ctx context.Context, locationID string) ([]model.ShiftTemplate, error) {
	key := "templates:" + locationID
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]model.ShiftTemplate), nil
	}
	templates, err := c.inner.GetTemplatesForLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, templates, gocache.DefaultExpiration)
	return templates, nil
}

// GetRecurringAssignments passes through uncached
func (c *CachedDatabase) GetRecurringAssignments(ctx context.Context, locationID string) ([]model.RecurringAssignment, error) {
	return c.inner.GetRecurringAssignments(ctx, locationID)
}

// GetOperatingHours returns the cached hours map, fetching on miss
func (c *CachedDatabase) GetOperatingHours(ctx context.Context, locationID string) (map[timeutil.Weekday]model.OperatingHours, error) {
	key := "hours:" + locationID
	if cached, ok := c.cache.Get(key); ok {
		return cached.(map[timeutil.Weekday]model.OperatingHours), nil
	}
	hours, err := c.inner.GetOperatingHours(ctx, locationID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, hours, gocache.DefaultExpiration)
	return hours, nil
}

// GetExternalCommitments passes through uncached; staleness here would
// defeat the cross-location conflict guard
func (c *CachedDatabase) GetExternalCommitments(ctx context.Context, locationID string, weekStart, weekEnd time.Time) ([]WorkerCommitment, error) {
	return c.inner.GetExternalCommitments(ctx, locationID, weekStart, weekEnd)
}

// SaveSchedule passes through to the underlying store
func (c *CachedDatabase) SaveSchedule(ctx context.Context, locationID string, weekDates []time.Time, shifts []ScheduledShift, assignments []ShiftAssignment) error {
	return c.inner.SaveSchedule(ctx, locationID, weekDates, shifts, assignments)
}
