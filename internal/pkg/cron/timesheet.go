package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
)

// Snapshotter reconciles and stores one date for all active employees.
type Snapshotter interface {
	SnapshotDay(ctx context.Context, date time.Time) (timesheet.SnapshotResponse, error)
}

type TimesheetJobs struct {
	snapshotter Snapshotter
	location    *time.Location
	interval    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	lastDate string
}

func NewTimesheetJobs(snapshotter Snapshotter, location *time.Location, interval time.Duration) *TimesheetJobs {
	if location == nil {
		location = time.UTC
	}
	return &TimesheetJobs{
		snapshotter: snapshotter,
		location:    location,
		interval:    interval,
		now:         time.Now,
	}
}

func (j *TimesheetJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("snapshot_previous_day", j.interval, j.SnapshotPreviousDay)
}

// SnapshotPreviousDay stores the reconciled records of yesterday in the
// configured timezone. Each date is snapshotted once per process; later
// ticks on the same day are no-ops.
func (j *TimesheetJobs) SnapshotPreviousDay(ctx context.Context) error {
	yesterday := j.now().In(j.location).AddDate(0, 0, -1)
	key := yesterday.Format("2006-01-02")

	j.mu.Lock()
	if j.lastDate == key {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	slog.Info("Cron: Starting snapshot of previous day", "date", key)

	resp, err := j.snapshotter.SnapshotDay(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to snapshot %s: %w", key, err)
	}

	j.mu.Lock()
	j.lastDate = key
	j.mu.Unlock()

	slog.Info("Cron: Snapshot stored",
		"date", resp.Date,
		"employees", resp.Employees,
		"records", resp.Records,
		"irregular", resp.Irregular,
	)
	return nil
}
