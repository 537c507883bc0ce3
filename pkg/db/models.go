package db

import "time"

// ScheduledShift is one stored shift occurrence. Dates are "2006-01-02"
// strings and clock times are "HH:mm" strings at this layer.
type ScheduledShift struct {
	ID         string
	Date       string
	TemplateID string

	// WorkerID is empty for unfilled shifts (stored as NULL)
	WorkerID string

	LocationID           string
	PositionID           string
	Start                string
	End                  string
	IsRecurringGenerated bool
}

// ShiftAssignment is one stored worker-to-shift assignment
type ShiftAssignment struct {
	ID       string
	ShiftID  string
	WorkerID string
	Type     string
	IsManual bool

	// Start and End are the portion of the shift the worker covers
	Start string
	End   string

	CreatedAt time.Time
}

// WorkerCommitment is a (worker, date) pair for a shift already stored at
// another location, used for the cross-location conflict guard
type WorkerCommitment struct {
	WorkerID string
	Date     string
}
