package timesheet

import (
	"context"
	"time"
)

// TimesheetService builds timesheet mirrors ("espelho de ponto")
type TimesheetService interface {
	// GetMirror reconciles one employee over a period
	GetMirror(ctx context.Context, req MirrorRequest) (MirrorResponse, error)

	// BatchMirror reconciles every active employee of a secretaria
	BatchMirror(ctx context.Context, req BatchMirrorRequest) (BatchMirrorResponse, error)

	// SnapshotDay reconciles one date for all active employees and stores the records
	SnapshotDay(ctx context.Context, date time.Time) (SnapshotResponse, error)

	// Stats returns dashboard counters for a date
	Stats(ctx context.Context, date time.Time) (StatsResponse, error)
}

// DayRefresher recomputes a stored day after its inputs change. Days that
// were never snapshotted are left alone.
type DayRefresher interface {
	RefreshDay(ctx context.Context, employeeID string, date time.Time) error
}

// CacheTag groups cached mirrors of one employee for invalidation.
func CacheTag(employeeID string) string {
	return "employee:" + employeeID
}

// HolidaysCacheTag is attached to every cached mirror; calendar changes
// invalidate all of them.
const HolidaysCacheTag = "holidays"
