package punch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pontoagent/ponto-backend-go/internal/domain/employee"
	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/cache"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/database"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/punchfile"
	timesheetsvc "github.com/pontoagent/ponto-backend-go/internal/service/timesheet"
)

var _ punch.PunchService = (*PunchServiceImpl)(nil)

type PunchServiceImpl struct {
	db database.Transactor
	punch.PunchRepository
	employee.EmployeeRepository
	cache    cache.Cache
	location *time.Location
}

func NewPunchService(db database.Transactor, punchRepo punch.PunchRepository, employeeRepo employee.EmployeeRepository, c cache.Cache, location *time.Location) *PunchServiceImpl {
	if c == nil {
		c = cache.Noop{}
	}
	if location == nil {
		location = time.UTC
	}
	return &PunchServiceImpl{
		db:                 db,
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		cache:              c,
		location:           location,
	}
}

type eventKey struct {
	employeeID string
	unix       int64
	direction  punch.Direction
}

// Import implements punch.PunchService. Bad lines are reported in the
// response and never abort the batch.
func (s *PunchServiceImpl) Import(ctx context.Context, req punch.ImportRequest) (punch.ImportResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.ImportResponse{}, err
	}

	rows, lineErrs, err := punchfile.Parse(req.File)
	if err != nil {
		return punch.ImportResponse{}, err
	}
	totalLines := len(rows) + len(lineErrs)
	if totalLines == 0 {
		return punch.ImportResponse{}, punch.ErrEmptyFile
	}

	var diags []timesheet.Diagnostic
	rejected := len(lineErrs)
	for _, le := range lineErrs {
		diags = append(diags, timesheet.Diagnostic{
			Kind:    timesheet.DiagnosticMalformedRecord,
			Line:    le.Line,
			Message: le.Err.Error(),
		})
	}

	type parsedRow struct {
		line  int
		event punch.PunchEvent
	}
	parsed := make([]parsedRow, 0, len(rows))
	registrations := make([]string, 0, len(rows))
	seenReg := make(map[string]bool)
	for _, row := range rows {
		event, err := timesheetsvc.ParseRow(row, s.location)
		if err != nil {
			rejected++
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticMalformedRecord,
				EmployeeID: strings.TrimSpace(row.EmployeeID),
				Line:       row.Line,
				Message:    err.Error(),
			})
			continue
		}
		parsed = append(parsed, parsedRow{line: row.Line, event: event})
		if !seenReg[event.EmployeeID] {
			seenReg[event.EmployeeID] = true
			registrations = append(registrations, event.EmployeeID)
		}
	}

	employees, err := s.EmployeeRepository.ListByRegistrations(ctx, registrations)
	if err != nil {
		return punch.ImportResponse{}, fmt.Errorf("failed to resolve employees: %w", err)
	}

	batchID := uuid.New().String()
	duplicates := 0
	seen := make(map[eventKey]bool, len(parsed))
	affected := make(map[string]bool)
	events := make([]punch.PunchEvent, 0, len(parsed))

	for _, p := range parsed {
		registration := p.event.EmployeeID
		emp, ok := employees[registration]
		if !ok || !emp.Active {
			rejected++
			msg := fmt.Sprintf("unknown registration %q", registration)
			if ok {
				msg = fmt.Sprintf("employee %q is inactive", registration)
			}
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticUnknownEmployee,
				EmployeeID: registration,
				Line:       p.line,
				Message:    msg,
			})
			continue
		}

		event := p.event
		event.EmployeeID = emp.ID
		event.BatchID = &batchID

		key := eventKey{employeeID: emp.ID, unix: event.Timestamp.Unix(), direction: event.Direction}
		if seen[key] {
			duplicates++
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticDuplicatePunch,
				EmployeeID: emp.ID,
				Date:       timesheet.DateOf(event.Timestamp, s.location),
				Line:       p.line,
				Message:    fmt.Sprintf("duplicate %s at %s in file", event.Direction, event.Timestamp.Format("2006-01-02 15:04")),
			})
			continue
		}
		seen[key] = true
		affected[emp.ID] = true
		events = append(events, event)
	}

	batch := punch.ImportBatch{
		ID:         batchID,
		Filename:   req.Filename,
		TotalLines: totalLines,
		ImportedBy: req.ImportedBy,
	}

	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.PunchRepository.CreateBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to create import batch: %w", err)
		}
		batch = created

		inserted := 0
		if len(events) > 0 {
			inserted, err = s.PunchRepository.BulkCreate(ctx, events)
			if err != nil {
				return fmt.Errorf("failed to store punches: %w", err)
			}
		}

		batch.Imported = inserted
		batch.Duplicates = duplicates + len(events) - inserted
		batch.Rejected = rejected
		if err := s.PunchRepository.UpdateBatchCounters(ctx, batch); err != nil {
			return fmt.Errorf("failed to update import batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return punch.ImportResponse{}, err
	}

	if batch.Imported > 0 {
		tags := make([]string, 0, len(affected))
		for id := range affected {
			tags = append(tags, timesheet.CacheTag(id))
		}
		sort.Strings(tags)
		if err := s.cache.Invalidate(ctx, tags...); err != nil {
			slog.Warn("Failed to invalidate cached mirrors", "batch_id", batch.ID, "error", err)
		}
	}

	slog.Info("Imported punch file",
		"batch_id", batch.ID,
		"filename", batch.Filename,
		"total_lines", batch.TotalLines,
		"imported", batch.Imported,
		"duplicates", batch.Duplicates,
		"rejected", batch.Rejected,
	)
	if batch.Rejected > 0 {
		slog.Warn("Punch file has rejected lines", "batch_id", batch.ID, "rejected", batch.Rejected)
	}

	sort.SliceStable(diags, func(i, j int) bool { return diags[i].Line < diags[j].Line })

	return punch.ImportResponse{
		BatchID:     batch.ID,
		Filename:    batch.Filename,
		TotalLines:  batch.TotalLines,
		Imported:    batch.Imported,
		Duplicates:  batch.Duplicates,
		Rejected:    batch.Rejected,
		Diagnostics: timesheet.NewDiagnosticResponses(diags),
	}, nil
}

// List implements punch.PunchService.
func (s *PunchServiceImpl) List(ctx context.Context, filter punch.PunchFilter) (punch.ListPunchResponse, error) {
	if err := filter.Validate(); err != nil {
		return punch.ListPunchResponse{}, err
	}

	events, total, err := s.PunchRepository.List(ctx, filter)
	if err != nil {
		return punch.ListPunchResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	items := make([]punch.PunchResponse, 0, len(events))
	for _, e := range events {
		ts := e.Timestamp.In(s.location)
		items = append(items, punch.PunchResponse{
			ID:         e.ID,
			EmployeeID: e.EmployeeID,
			Date:       ts.Format("2006-01-02"),
			Time:       ts.Format("15:04"),
			Direction:  string(e.Direction),
			TerminalID: e.TerminalID,
			LocationID: e.LocationID,
			CompanyID:  e.CompanyID,
			BatchID:    e.BatchID,
		})
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	return punch.ListPunchResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Punches:    items,
	}, nil
}
