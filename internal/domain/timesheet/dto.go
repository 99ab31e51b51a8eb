package timesheet

import (
	"fmt"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
)

// ========================================
// MIRROR DTOs
// ========================================

type MirrorRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}

func (r *MirrorRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = append(errs, validatePeriod(r.StartDate, r.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchMirrorRequest struct {
	SecretariaID *string `json:"secretaria_id,omitempty"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
}

func (r *BatchMirrorRequest) Validate() error {
	errs := validatePeriod(r.StartDate, r.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(startDate, endDate string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	start, startValid := validator.IsValidDate(startDate)
	if !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endValid := validator.IsValidDate(endDate)
	if !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidPeriod.Error(),
		})
	}

	return errs
}

type EmployeeInfo struct {
	ID             string  `json:"id"`
	Registration   string  `json:"registration"`
	Name           string  `json:"name"`
	SecretariaID   *string `json:"secretaria_id,omitempty"`
	SecretariaName *string `json:"secretaria_name,omitempty"`
	TargetMinutes  int     `json:"daily_target_minutes"`
}

type PeriodResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SessionResponse struct {
	Start           string  `json:"start"`
	End             *string `json:"end,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Open            bool    `json:"open"`
}

type DayRecordResponse struct {
	Date             string            `json:"date"`
	Weekday          string            `json:"weekday"`
	Sessions         []SessionResponse `json:"sessions"`
	WorkedMinutes    int               `json:"worked_minutes"`
	OvertimeMinutes  int               `json:"overtime_minutes"`
	ShortfallMinutes int               `json:"shortfall_minutes"`
	WorkedHours      string            `json:"worked_hours"`
	OvertimeHours    string            `json:"overtime_hours"`
	ShortfallHours   string            `json:"shortfall_hours"`
	Status           DayStatus         `json:"status"`
	Note             string            `json:"note"`
	JustificationID  *string           `json:"justification_id,omitempty"`
}

type SummaryResponse struct {
	TotalCalendarDays     int    `json:"total_calendar_days"`
	WorkingDaysExpected   int    `json:"working_days_expected"`
	DaysWorked            int    `json:"days_worked"`
	TotalWorkedMinutes    int    `json:"total_worked_minutes"`
	TotalOvertimeMinutes  int    `json:"total_overtime_minutes"`
	TotalShortfallMinutes int    `json:"total_shortfall_minutes"`
	TotalWorkedHours      string `json:"total_worked_hours"`
	TotalOvertimeHours    string `json:"total_overtime_hours"`
	TotalShortfallHours   string `json:"total_shortfall_hours"`
	JustifiedDays         int    `json:"justified_days"`
	RegularDays           int    `json:"regular_days"`
	IrregularDays         int    `json:"irregular_days"`
	WeekendDays           int    `json:"weekend_days"`
	HolidayDays           int    `json:"holiday_days"`
}

type DiagnosticResponse struct {
	Kind       DiagnosticKind `json:"kind"`
	EmployeeID string         `json:"employee_id,omitempty"`
	Date       *string        `json:"date,omitempty"`
	Line       int            `json:"line,omitempty"`
	Message    string         `json:"message"`
}

type MirrorResponse struct {
	Employee    EmployeeInfo         `json:"employee"`
	Period      PeriodResponse       `json:"period"`
	Days        []DayRecordResponse  `json:"days"`
	Summary     SummaryResponse      `json:"summary"`
	Diagnostics []DiagnosticResponse `json:"diagnostics"`
	GeneratedAt string               `json:"generated_at"`
}

type EmployeeSummaryResponse struct {
	Employee        EmployeeInfo    `json:"employee"`
	Summary         SummaryResponse `json:"summary"`
	DiagnosticCount int             `json:"diagnostic_count"`
}

type BatchMirrorResponse struct {
	Period      PeriodResponse            `json:"period"`
	Employees   []EmployeeSummaryResponse `json:"employees"`
	GeneratedAt string                    `json:"generated_at"`
}

// ========================================
// SNAPSHOT / DASHBOARD DTOs
// ========================================

type SnapshotResponse struct {
	Date        string `json:"date"`
	Employees   int    `json:"employees"`
	Records     int    `json:"records"`
	Irregular   int    `json:"irregular"`
	Diagnostics int    `json:"diagnostics"`
}

type StatsResponse struct {
	Date                   string `json:"date"`
	ActiveEmployees        int64  `json:"active_employees"`
	PunchesOnDate          int64  `json:"punches_on_date"`
	PendingJustifications  int64  `json:"pending_justifications"`
	IrregularDaysThisMonth int64  `json:"irregular_days_this_month"`
}

// ========================================
// MAPPERS
// ========================================

// FormatMinutes renders minutes as HH:MM.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = -minutes
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func NewPeriodResponse(p Period) PeriodResponse {
	return PeriodResponse{StartDate: DateKey(p.Start), EndDate: DateKey(p.End)}
}

func NewDayRecordResponse(rec DayRecord) DayRecordResponse {
	sessions := make([]SessionResponse, 0, len(rec.Sessions))
	for _, s := range rec.Sessions {
		resp := SessionResponse{
			Start:           s.Start.Format("15:04"),
			DurationMinutes: s.DurationMinutes,
			Open:            s.Open,
		}
		if !s.Open {
			end := s.End.Format("15:04")
			resp.End = &end
		}
		sessions = append(sessions, resp)
	}

	return DayRecordResponse{
		Date:             DateKey(rec.Date),
		Weekday:          rec.Weekday.String(),
		Sessions:         sessions,
		WorkedMinutes:    rec.WorkedMinutes,
		OvertimeMinutes:  rec.OvertimeMinutes,
		ShortfallMinutes: rec.ShortfallMinutes,
		WorkedHours:      FormatMinutes(rec.WorkedMinutes),
		OvertimeHours:    FormatMinutes(rec.OvertimeMinutes),
		ShortfallHours:   FormatMinutes(rec.ShortfallMinutes),
		Status:           rec.Status,
		Note:             rec.Note,
		JustificationID:  rec.JustificationID,
	}
}

func NewSummaryResponse(s PeriodSummary) SummaryResponse {
	return SummaryResponse{
		TotalCalendarDays:     s.TotalCalendarDays,
		WorkingDaysExpected:   s.WorkingDaysExpected,
		DaysWorked:            s.DaysWorked,
		TotalWorkedMinutes:    s.TotalWorkedMinutes,
		TotalOvertimeMinutes:  s.TotalOvertimeMinutes,
		TotalShortfallMinutes: s.TotalShortfallMinutes,
		TotalWorkedHours:      FormatMinutes(s.TotalWorkedMinutes),
		TotalOvertimeHours:    FormatMinutes(s.TotalOvertimeMinutes),
		TotalShortfallHours:   FormatMinutes(s.TotalShortfallMinutes),
		JustifiedDays:         s.JustifiedDays,
		RegularDays:           s.RegularDays,
		IrregularDays:         s.IrregularDays,
		WeekendDays:           s.WeekendDays,
		HolidayDays:           s.HolidayDays,
	}
}

func NewDiagnosticResponses(diags []Diagnostic) []DiagnosticResponse {
	out := make([]DiagnosticResponse, 0, len(diags))
	for _, d := range diags {
		resp := DiagnosticResponse{
			Kind:       d.Kind,
			EmployeeID: d.EmployeeID,
			Line:       d.Line,
			Message:    d.Message,
		}
		if !d.Date.IsZero() {
			date := DateKey(d.Date)
			resp.Date = &date
		}
		out = append(out, resp)
	}
	return out
}

// FormatTimestamp renders generation timestamps.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
