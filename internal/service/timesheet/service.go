package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/employee"
	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/cache"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Rules            Rules
	MaxPeriodDays    int
	BatchConcurrency int
}

var (
	_ timesheet.TimesheetService = (*TimesheetServiceImpl)(nil)
	_ timesheet.DayRefresher     = (*TimesheetServiceImpl)(nil)
)

type TimesheetServiceImpl struct {
	employeeRepo      employee.EmployeeRepository
	punchRepo         punch.PunchRepository
	justificationRepo justification.JustificationRepository
	holidayRepo       holiday.HolidayRepository
	dayRecordRepo     timesheet.DayRecordRepository
	cache             cache.Cache
	cfg               Config
	now               func() time.Time
}

func NewTimesheetService(
	employeeRepo employee.EmployeeRepository,
	punchRepo punch.PunchRepository,
	justificationRepo justification.JustificationRepository,
	holidayRepo holiday.HolidayRepository,
	dayRecordRepo timesheet.DayRecordRepository,
	c cache.Cache,
	cfg Config,
) *TimesheetServiceImpl {
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 8
	}
	return &TimesheetServiceImpl{
		employeeRepo:      employeeRepo,
		punchRepo:         punchRepo,
		justificationRepo: justificationRepo,
		holidayRepo:       holidayRepo,
		dayRecordRepo:     dayRecordRepo,
		cache:             c,
		cfg:               cfg,
		now:               time.Now,
	}
}

// GetMirror implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetMirror(ctx context.Context, req timesheet.MirrorRequest) (timesheet.MirrorResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.MirrorResponse{}, err
	}

	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return timesheet.MirrorResponse{}, err
	}

	period, err := s.parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return timesheet.MirrorResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return timesheet.MirrorResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !principal.CanAccessEmployee(emp.ID, emp.SecretariaID) {
		return timesheet.MirrorResponse{}, timesheet.ErrForbiddenMirror
	}

	cacheKey, cacheable := s.mirrorCacheKey(ctx, emp.ID, period)
	if cacheable {
		var cached timesheet.MirrorResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			slog.Warn("Failed to read cached mirror", "employee_id", emp.ID, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	var (
		punches        []punch.PunchEvent
		justifications []justification.Justification
		holidays       []holiday.Holiday
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		punches, err = s.punchRepo.ListByEmployeeAndRange(gCtx, emp.ID, period.Start, period.End.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("failed to list punches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		justifications, err = s.justificationRepo.ListByEmployeeAndRange(gCtx, emp.ID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to list justifications: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		holidays, err = s.holidayRepo.ListByRange(gCtx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return timesheet.MirrorResponse{}, err
	}

	res := Reconcile(Input{
		EmployeeID:     emp.ID,
		Period:         period,
		Punches:        punches,
		Justifications: justifications,
		Holidays:       holidays,
		TargetMinutes:  emp.DailyTargetMinutes,
	}, s.cfg.Rules)

	if len(res.Diagnostics) > 0 {
		slog.Warn("Timesheet reconciled with diagnostics",
			"employee_id", emp.ID,
			"start_date", timesheet.DateKey(period.Start),
			"end_date", timesheet.DateKey(period.End),
			"diagnostics", len(res.Diagnostics),
		)
	}

	resp := s.mirrorResponse(emp, res)
	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, resp, timesheet.CacheTag(emp.ID), timesheet.HolidaysCacheTag); err != nil {
			slog.Warn("Failed to cache mirror", "employee_id", emp.ID, "error", err)
		}
	}

	return resp, nil
}

// mirrorCacheKey embeds the current generations of the employee and holiday
// tags, read before any data is loaded. A mirror computed from rows that an
// import or review replaced mid-read is stored under a key no later reader
// asks for.
func (s *TimesheetServiceImpl) mirrorCacheKey(ctx context.Context, employeeID string, period timesheet.Period) (string, bool) {
	empGen, err := s.cache.Generation(ctx, timesheet.CacheTag(employeeID))
	if err != nil {
		slog.Warn("Failed to read cache generation", "employee_id", employeeID, "error", err)
		return "", false
	}
	holidayGen, err := s.cache.Generation(ctx, timesheet.HolidaysCacheTag)
	if err != nil {
		slog.Warn("Failed to read cache generation", "employee_id", employeeID, "error", err)
		return "", false
	}

	return fmt.Sprintf("mirror:%s:g%d:h%d:%s:%s", employeeID, empGen, holidayGen,
		timesheet.DateKey(period.Start), timesheet.DateKey(period.End)), true
}

// BatchMirror implements timesheet.TimesheetService. A gestor is always
// limited to their own secretaria.
func (s *TimesheetServiceImpl) BatchMirror(ctx context.Context, req timesheet.BatchMirrorRequest) (timesheet.BatchMirrorResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.BatchMirrorResponse{}, err
	}

	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return timesheet.BatchMirrorResponse{}, err
	}
	if !principal.IsManager() {
		return timesheet.BatchMirrorResponse{}, user.ErrManagerAccessRequired
	}

	secretariaID := req.SecretariaID
	if !principal.IsAdmin() {
		if principal.SecretariaID == nil {
			return timesheet.BatchMirrorResponse{}, timesheet.ErrForbiddenMirror
		}
		if secretariaID != nil && *secretariaID != *principal.SecretariaID {
			return timesheet.BatchMirrorResponse{}, timesheet.ErrForbiddenMirror
		}
		secretariaID = principal.SecretariaID
	}

	period, err := s.parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return timesheet.BatchMirrorResponse{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx, secretariaID)
	if err != nil {
		return timesheet.BatchMirrorResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	results, err := s.reconcileMany(ctx, employees, period)
	if err != nil {
		return timesheet.BatchMirrorResponse{}, err
	}

	rows := make([]timesheet.EmployeeSummaryResponse, 0, len(results))
	for i, res := range results {
		rows = append(rows, timesheet.EmployeeSummaryResponse{
			Employee:        s.employeeInfo(employees[i]),
			Summary:         timesheet.NewSummaryResponse(res.Summary),
			DiagnosticCount: len(res.Diagnostics),
		})
	}

	return timesheet.BatchMirrorResponse{
		Period:      timesheet.NewPeriodResponse(period),
		Employees:   rows,
		GeneratedAt: timesheet.FormatTimestamp(s.now()),
	}, nil
}

// SnapshotDay implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) SnapshotDay(ctx context.Context, date time.Time) (timesheet.SnapshotResponse, error) {
	loc := s.cfg.Rules.location()
	day := timesheet.CalendarDate(date, loc)
	period := timesheet.Period{Start: day, End: day}

	employees, err := s.employeeRepo.ListActive(ctx, nil)
	if err != nil {
		return timesheet.SnapshotResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	results, err := s.reconcileMany(ctx, employees, period)
	if err != nil {
		return timesheet.SnapshotResponse{}, err
	}

	resp := timesheet.SnapshotResponse{Date: timesheet.DateKey(day), Employees: len(employees)}
	records := make([]timesheet.DayRecord, 0, len(results))
	for _, res := range results {
		records = append(records, res.Days...)
		resp.Diagnostics += len(res.Diagnostics)
		resp.Irregular += res.Summary.IrregularDays
	}

	if len(records) > 0 {
		if err := s.dayRecordRepo.Upsert(ctx, records); err != nil {
			return timesheet.SnapshotResponse{}, fmt.Errorf("failed to store day records: %w", err)
		}
	}
	resp.Records = len(records)

	slog.Info("Stored timesheet snapshot",
		"date", resp.Date,
		"employees", resp.Employees,
		"records", resp.Records,
		"irregular", resp.Irregular,
		"diagnostics", resp.Diagnostics,
	)
	return resp, nil
}

// RefreshDay implements timesheet.DayRefresher. Only days already stored by
// a snapshot are recomputed.
func (s *TimesheetServiceImpl) RefreshDay(ctx context.Context, employeeID string, date time.Time) error {
	day := timesheet.CalendarDate(date, s.cfg.Rules.location())

	stored, err := s.dayRecordRepo.Exists(ctx, employeeID, day)
	if err != nil {
		return fmt.Errorf("failed to check day record: %w", err)
	}
	if !stored {
		return nil
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}

	results, err := s.reconcileMany(ctx, []employee.Employee{emp}, timesheet.Period{Start: day, End: day})
	if err != nil {
		return err
	}
	if err := s.dayRecordRepo.Upsert(ctx, results[0].Days); err != nil {
		return fmt.Errorf("failed to store day record: %w", err)
	}

	slog.Info("Refreshed stored day record",
		"employee_id", employeeID,
		"date", timesheet.DateKey(day),
		"status", results[0].Days[0].Status,
	)
	return nil
}

// Stats implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Stats(ctx context.Context, date time.Time) (timesheet.StatsResponse, error) {
	loc := s.cfg.Rules.location()
	day := timesheet.CalendarDate(date, loc)
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)

	resp := timesheet.StatsResponse{Date: timesheet.DateKey(day)}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.employeeRepo.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		resp.ActiveEmployees = n
		return nil
	})
	g.Go(func() error {
		n, err := s.punchRepo.CountInRange(gCtx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("failed to count punches: %w", err)
		}
		resp.PunchesOnDate = n
		return nil
	})
	g.Go(func() error {
		n, err := s.justificationRepo.CountPending(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count pending justifications: %w", err)
		}
		resp.PendingJustifications = n
		return nil
	})
	g.Go(func() error {
		n, err := s.dayRecordRepo.CountByStatus(gCtx, timesheet.StatusIrregular, monthStart, day)
		if err != nil {
			return fmt.Errorf("failed to count irregular days: %w", err)
		}
		resp.IrregularDaysThisMonth = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return timesheet.StatsResponse{}, err
	}

	return resp, nil
}

// reconcileMany reconciles employees in parallel. results[i] belongs to
// employees[i].
func (s *TimesheetServiceImpl) reconcileMany(ctx context.Context, employees []employee.Employee, period timesheet.Period) ([]Result, error) {
	holidays, err := s.holidayRepo.ListByRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	results := make([]Result, len(employees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for i := range employees {
		i := i
		emp := employees[i]
		g.Go(func() error {
			punches, err := s.punchRepo.ListByEmployeeAndRange(gCtx, emp.ID, period.Start, period.End.AddDate(0, 0, 1))
			if err != nil {
				return fmt.Errorf("failed to list punches of %s: %w", emp.ID, err)
			}
			justifications, err := s.justificationRepo.ListByEmployeeAndRange(gCtx, emp.ID, period.Start, period.End)
			if err != nil {
				return fmt.Errorf("failed to list justifications of %s: %w", emp.ID, err)
			}

			results[i] = Reconcile(Input{
				EmployeeID:     emp.ID,
				Period:         period,
				Punches:        punches,
				Justifications: justifications,
				Holidays:       holidays,
				TargetMinutes:  emp.DailyTargetMinutes,
			}, s.cfg.Rules)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *TimesheetServiceImpl) parsePeriod(startDate, endDate string) (timesheet.Period, error) {
	loc := s.cfg.Rules.location()
	start, err := time.ParseInLocation(timesheet.DateLayout, startDate, loc)
	if err != nil {
		return timesheet.Period{}, timesheet.ErrInvalidPeriod
	}
	end, err := time.ParseInLocation(timesheet.DateLayout, endDate, loc)
	if err != nil {
		return timesheet.Period{}, timesheet.ErrInvalidPeriod
	}

	period := timesheet.Period{Start: start, End: end}
	if period.Len() == 0 {
		return timesheet.Period{}, timesheet.ErrInvalidPeriod
	}
	if s.cfg.MaxPeriodDays > 0 && period.Len() > s.cfg.MaxPeriodDays {
		return timesheet.Period{}, timesheet.ErrPeriodTooLong
	}
	return period, nil
}

func (s *TimesheetServiceImpl) employeeInfo(emp employee.Employee) timesheet.EmployeeInfo {
	return timesheet.EmployeeInfo{
		ID:             emp.ID,
		Registration:   emp.Registration,
		Name:           emp.Name,
		SecretariaID:   emp.SecretariaID,
		SecretariaName: emp.SecretariaName,
		TargetMinutes:  emp.TargetMinutes(s.cfg.Rules.DailyTargetMinutes),
	}
}

func (s *TimesheetServiceImpl) mirrorResponse(emp employee.Employee, res Result) timesheet.MirrorResponse {
	days := make([]timesheet.DayRecordResponse, 0, len(res.Days))
	for _, d := range res.Days {
		days = append(days, timesheet.NewDayRecordResponse(d))
	}

	return timesheet.MirrorResponse{
		Employee:    s.employeeInfo(emp),
		Period:      timesheet.NewPeriodResponse(res.Period),
		Days:        days,
		Summary:     timesheet.NewSummaryResponse(res.Summary),
		Diagnostics: timesheet.NewDiagnosticResponses(res.Diagnostics),
		GeneratedAt: timesheet.FormatTimestamp(s.now()),
	}
}
