package timesheet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/employee"
	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByRegistration(_ context.Context, registration string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.Registration == registration {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListByRegistrations(_ context.Context, registrations []string) (map[string]employee.Employee, error) {
	out := make(map[string]employee.Employee)
	for _, reg := range registrations {
		for _, e := range r.employees {
			if e.Registration == reg {
				out[reg] = e
			}
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context, secretariaID *string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if !e.Active {
			continue
		}
		if secretariaID != nil && (e.SecretariaID == nil || *e.SecretariaID != *secretariaID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) CountActive(ctx context.Context) (int64, error) {
	active, _ := r.ListActive(ctx, nil)
	return int64(len(active)), nil
}

type fakePunchRepo struct {
	mu      sync.Mutex
	events  []punch.PunchEvent
	batches []punch.ImportBatch
	// afterList runs once a range read has its rows, outside the lock.
	afterList func()
}

func (r *fakePunchRepo) CreateBatch(_ context.Context, b punch.ImportBatch) (punch.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, b)
	return b, nil
}

func (r *fakePunchRepo) UpdateBatchCounters(_ context.Context, b punch.ImportBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.batches {
		if r.batches[i].ID == b.ID {
			r.batches[i] = b
		}
	}
	return nil
}

func (r *fakePunchRepo) BulkCreate(_ context.Context, events []punch.PunchEvent) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, e := range events {
		dup := false
		for _, s := range r.events {
			if s.EmployeeID == e.EmployeeID && s.Timestamp.Equal(e.Timestamp) && s.Direction == e.Direction {
				dup = true
				break
			}
		}
		if !dup {
			r.events = append(r.events, e)
			inserted++
		}
	}
	return inserted, nil
}

func (r *fakePunchRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]punch.PunchEvent, error) {
	r.mu.Lock()
	var out []punch.PunchEvent
	for _, e := range r.events {
		if e.EmployeeID == employeeID && !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			out = append(out, e)
		}
	}
	hook := r.afterList
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *fakePunchRepo) List(_ context.Context, _ punch.PunchFilter) ([]punch.PunchEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]punch.PunchEvent(nil), r.events...), int64(len(r.events)), nil
}

func (r *fakePunchRepo) CountInRange(_ context.Context, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			n++
		}
	}
	return n, nil
}

type fakeJustificationRepo struct {
	items []justification.Justification
}

func (r *fakeJustificationRepo) Create(_ context.Context, j justification.Justification) (justification.Justification, error) {
	r.items = append(r.items, j)
	return j, nil
}

func (r *fakeJustificationRepo) GetByID(_ context.Context, id string) (justification.Justification, error) {
	for _, j := range r.items {
		if j.ID == id {
			return j, nil
		}
	}
	return justification.Justification{}, justification.ErrJustificationNotFound
}

func (r *fakeJustificationRepo) List(_ context.Context, _ justification.JustificationFilter) ([]justification.Justification, int64, error) {
	return r.items, int64(len(r.items)), nil
}

func (r *fakeJustificationRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]justification.Justification, error) {
	var out []justification.Justification
	for _, j := range r.items {
		key := timesheet.DateKey(j.CoveredDate)
		if j.EmployeeID == employeeID && key >= timesheet.DateKey(from) && key <= timesheet.DateKey(to) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJustificationRepo) ListByRange(_ context.Context, from, to time.Time) ([]justification.Justification, error) {
	var out []justification.Justification
	for _, j := range r.items {
		key := timesheet.DateKey(j.CoveredDate)
		if key >= timesheet.DateKey(from) && key <= timesheet.DateKey(to) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJustificationRepo) UpdateReview(_ context.Context, id string, status justification.Status, reviewedBy string, note *string, reviewedAt time.Time) error {
	for i := range r.items {
		if r.items[i].ID == id {
			if r.items[i].Status != justification.StatusPending {
				return justification.ErrJustificationAlreadyReviewed
			}
			r.items[i].Status = status
			r.items[i].ReviewedBy = &reviewedBy
			r.items[i].ReviewNote = note
			r.items[i].ReviewedAt = &reviewedAt
			return nil
		}
	}
	return justification.ErrJustificationNotFound
}

func (r *fakeJustificationRepo) Delete(_ context.Context, id string) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return justification.ErrJustificationNotFound
}

func (r *fakeJustificationRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, j := range r.items {
		if j.Status == justification.StatusPending {
			n++
		}
	}
	return n, nil
}

type fakeHolidayRepo struct {
	items []holiday.Holiday
}

func (r *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.items = append(r.items, h)
	return h, nil
}

func (r *fakeHolidayRepo) ListByRange(_ context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.items {
		key := timesheet.DateKey(h.Date)
		if key >= timesheet.DateKey(from) && key <= timesheet.DateKey(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	return nil
}

type fakeDayRecordRepo struct {
	mu      sync.Mutex
	records map[string]timesheet.DayRecord
}

func (r *fakeDayRecordRepo) Upsert(_ context.Context, records []timesheet.DayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records == nil {
		r.records = make(map[string]timesheet.DayRecord)
	}
	for _, rec := range records {
		r.records[rec.EmployeeID+"|"+timesheet.DateKey(rec.Date)] = rec
	}
	return nil
}

func (r *fakeDayRecordRepo) Exists(_ context.Context, employeeID string, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[employeeID+"|"+timesheet.DateKey(date)]
	return ok, nil
}

func (r *fakeDayRecordRepo) get(employeeID string, date time.Time) (timesheet.DayRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[employeeID+"|"+timesheet.DateKey(date)]
	return rec, ok
}

func (r *fakeDayRecordRepo) CountByStatus(_ context.Context, status timesheet.DayStatus, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.records {
		key := timesheet.DateKey(rec.Date)
		if rec.Status == status && key >= timesheet.DateKey(from) && key <= timesheet.DateKey(to) {
			n++
		}
	}
	return n, nil
}

// memoryCache is a tag-aware in-memory cache.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]any
	tags   map[string][]string
	gens   map[string]int64
	gets   int
	hits   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]any{}, tags: map[string][]string{}, gens: map[string]int64{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	*(dest.(*timesheet.MirrorResponse)) = v.(timesheet.MirrorResponse)
	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	for _, t := range tags {
		c.tags[t] = append(c.tags[t], key)
	}
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tags {
		c.gens[t]++
		for _, k := range c.tags[t] {
			delete(c.values, k)
		}
		delete(c.tags, t)
	}
	return nil
}

func (c *memoryCache) Generation(_ context.Context, tag string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[tag], nil
}
