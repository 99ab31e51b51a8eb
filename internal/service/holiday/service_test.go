package holiday

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	items []holiday.Holiday
}

func (r *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	for _, existing := range r.items {
		if existing.Date.Equal(h.Date) {
			return holiday.Holiday{}, holiday.ErrHolidayDateExists
		}
	}
	r.items = append(r.items, h)
	return h, nil
}

func (r *fakeHolidayRepo) ListByRange(_ context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.items {
		if h.Active && !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return holiday.ErrHolidayNotFound
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (c *recordingCache) Set(context.Context, string, any, ...string) error { return nil }

func (c *recordingCache) Invalidate(_ context.Context, tags ...string) error {
	c.invalidated = append(c.invalidated, tags...)
	return nil
}

func (c *recordingCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func newTestService() (*HolidayServiceImpl, *fakeHolidayRepo, *recordingCache) {
	repo := &fakeHolidayRepo{}
	c := &recordingCache{}
	svc := NewHolidayService(repo, c)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, c
}

func TestCreateHoliday(t *testing.T) {
	svc, _, c := newTestService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, holiday.CreateHolidayRequest{Date: "2024-04-23", Description: "São Jorge"})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-23", resp.Date)
	assert.Equal(t, "Tuesday", resp.Weekday)
	assert.Equal(t, string(holiday.KindMunicipal), resp.Kind)
	assert.Equal(t, []string{timesheet.HolidaysCacheTag}, c.invalidated)

	_, err = svc.Create(ctx, holiday.CreateHolidayRequest{Date: "2024-04-23", Description: "Outro"})
	assert.ErrorIs(t, err, holiday.ErrHolidayDateExists)

	_, err = svc.Create(ctx, holiday.CreateHolidayRequest{Date: "23/04/2024", Kind: "religioso"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "kind")
}

func TestListHolidays(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	for _, req := range []holiday.CreateHolidayRequest{
		{Date: "2023-12-25", Description: "Natal", Kind: "nacional"},
		{Date: "2024-11-15", Description: "Proclamação da República", Kind: "nacional"},
		{Date: "2024-01-01", Description: "Confraternização Universal", Kind: "nacional"},
		{Date: "2025-01-01", Description: "Confraternização Universal", Kind: "nacional"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, holiday.HolidayFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, "2024-11-15", got[1].Date)

	got, err = svc.List(ctx, holiday.HolidayFilter{StartDate: "2023-12-01"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2023-12-25", got[0].Date)

	got, err = svc.List(ctx, holiday.HolidayFilter{StartDate: "2023-12-01", EndDate: "2025-01-31"})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = svc.List(ctx, holiday.HolidayFilter{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assert.Error(t, err)
}

func TestDeleteHoliday(t *testing.T) {
	svc, repo, c := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, holiday.CreateHolidayRequest{Date: "2024-04-23", Description: "São Jorge"})
	require.NoError(t, err)
	c.invalidated = nil

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.items)
	assert.Equal(t, []string{timesheet.HolidaysCacheTag}, c.invalidated)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), holiday.ErrHolidayNotFound)
}
