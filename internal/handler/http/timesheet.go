package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
	"github.com/pontoagent/ponto-backend-go/internal/handler/http/response"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
)

type TimesheetHandler interface {
	GetMirror(w http.ResponseWriter, r *http.Request)
	GetMyMirror(w http.ResponseWriter, r *http.Request)
	BatchMirror(w http.ResponseWriter, r *http.Request)
	Snapshot(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
	location         *time.Location
	now              func() time.Time
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService, location *time.Location) TimesheetHandler {
	if location == nil {
		location = time.UTC
	}
	return &TimesheetHandlerImpl{
		timesheetService: timesheetService,
		location:         location,
		now:              time.Now,
	}
}

// GetMirror implements TimesheetHandler.
func (h *TimesheetHandlerImpl) GetMirror(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	h.mirror(w, r, employeeID)
}

// GetMyMirror implements TimesheetHandler.
func (h *TimesheetHandlerImpl) GetMyMirror(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if principal.EmployeeID == nil {
		response.HandleError(w, user.ErrEmployeeClaimRequired)
		return
	}

	h.mirror(w, r, *principal.EmployeeID)
}

func (h *TimesheetHandlerImpl) mirror(w http.ResponseWriter, r *http.Request, employeeID string) {
	req := timesheet.MirrorRequest{
		EmployeeID: employeeID,
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}

	mirror, err := h.timesheetService.GetMirror(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, mirror)
}

// BatchMirror implements TimesheetHandler.
func (h *TimesheetHandlerImpl) BatchMirror(w http.ResponseWriter, r *http.Request) {
	req := timesheet.BatchMirrorRequest{
		SecretariaID: optionalQuery(r, "secretaria_id"),
		StartDate:    r.URL.Query().Get("start_date"),
		EndDate:      r.URL.Query().Get("end_date"),
	}

	batch, err := h.timesheetService.BatchMirror(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, batch)
}

// Snapshot implements TimesheetHandler. Without ?date the previous day is
// processed.
func (h *TimesheetHandlerImpl) Snapshot(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r, h.now().In(h.location).AddDate(0, 0, -1))
	if !ok {
		return
	}

	result, err := h.timesheetService.SnapshotDay(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Snapshot completed successfully", result)
}

// Stats implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r, h.now().In(h.location))
	if !ok {
		return
	}

	stats, err := h.timesheetService.Stats(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// dateParam parses ?date or falls back to def. Only the calendar fields of
// the result are used downstream.
func (h *TimesheetHandlerImpl) dateParam(w http.ResponseWriter, r *http.Request, def time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return def, true
	}

	date, valid := validator.IsValidDate(raw)
	if !valid {
		response.ValidationError(w, map[string]string{"date": "date must be in YYYY-MM-DD format"})
		return time.Time{}, false
	}
	return date, true
}
