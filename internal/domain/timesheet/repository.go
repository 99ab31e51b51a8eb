package timesheet

import (
	"context"
	"time"
)

// DayRecordRepository stores reconciled days (the processed mirror).
type DayRecordRepository interface {
	// Upsert replaces the stored records of the same employee and date
	Upsert(ctx context.Context, records []DayRecord) error

	// Exists reports whether a record is stored for the employee and date
	Exists(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// CountByStatus counts stored records with status in [from, to]
	CountByStatus(ctx context.Context, status DayStatus, from, to time.Time) (int64, error)
}
