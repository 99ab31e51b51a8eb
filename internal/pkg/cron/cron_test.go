package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotter struct {
	mu    sync.Mutex
	dates []time.Time
	err   error
}

func (f *fakeSnapshotter) SnapshotDay(_ context.Context, date time.Time) (timesheet.SnapshotResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return timesheet.SnapshotResponse{}, f.err
	}
	f.dates = append(f.dates, date)
	return timesheet.SnapshotResponse{Date: date.Format("2006-01-02"), Employees: 3, Records: 3}, nil
}

func TestSnapshotPreviousDayUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	snap := &fakeSnapshotter{}
	jobs := NewTimesheetJobs(snap, loc, time.Hour)
	// 01:30 UTC on the 5th is still the 4th in São Paulo
	jobs.now = func() time.Time { return time.Date(2024, 3, 5, 1, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.SnapshotPreviousDay(context.Background()))
	require.NoError(t, jobs.SnapshotPreviousDay(context.Background()))

	require.Len(t, snap.dates, 1)
	assert.Equal(t, "2024-03-03", snap.dates[0].Format("2006-01-02"))

	jobs.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, jobs.SnapshotPreviousDay(context.Background()))
	require.Len(t, snap.dates, 2)
	assert.Equal(t, "2024-03-04", snap.dates[1].Format("2006-01-02"))
}

func TestSnapshotPreviousDayRetriesAfterFailure(t *testing.T) {
	snap := &fakeSnapshotter{err: errors.New("db down")}
	jobs := NewTimesheetJobs(snap, time.UTC, time.Hour)

	assert.Error(t, jobs.SnapshotPreviousDay(context.Background()))

	snap.err = nil
	require.NoError(t, jobs.SnapshotPreviousDay(context.Background()))
	assert.Len(t, snap.dates, 1)
}

func TestSchedulerRunOnceRecoversPanics(t *testing.T) {
	s := NewScheduler(context.Background())
	ran := 0
	s.AddJob("panics", time.Hour, func(context.Context) error { panic("boom") })
	s.AddJob("counts", time.Hour, func(context.Context) error { ran++; return nil })

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panics")
	assert.Equal(t, 1, ran)
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler(context.Background())
	done := make(chan struct{}, 1)
	s.AddJob("once", time.Hour, func(context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	snap := &fakeSnapshotter{}
	NewTimesheetJobs(snap, time.UTC, time.Hour).RegisterJobs(s)
	assert.Len(t, s.Jobs(), 2)

	s.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
