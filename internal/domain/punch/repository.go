package punch

import (
	"context"
	"time"
)

type PunchRepository interface {
	// CreateBatch registers an import batch
	CreateBatch(ctx context.Context, batch ImportBatch) (ImportBatch, error)

	// UpdateBatchCounters stores the final counters of a batch
	UpdateBatchCounters(ctx context.Context, batch ImportBatch) error

	// BulkCreate inserts events, skipping ones already stored with the same
	// employee, timestamp and direction. Returns the number inserted.
	BulkCreate(ctx context.Context, events []PunchEvent) (int, error)

	// ListByEmployeeAndRange returns events in [from, to) ordered by time
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]PunchEvent, error)

	// List retrieves events with filters and pagination
	List(ctx context.Context, filter PunchFilter) ([]PunchEvent, int64, error)

	// CountInRange counts events in [from, to)
	CountInRange(ctx context.Context, from, to time.Time) (int64, error)
}
