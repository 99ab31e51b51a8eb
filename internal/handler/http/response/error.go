package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pontoagent/ponto-backend-go/internal/domain/employee"
	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInvalidRole):
		Forbidden(w, "Invalid role")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrEmployeeClaimRequired):
		Forbidden(w, "Employee ID not found in token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is inactive", nil)

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrInvalidPeriod):
		ValidationError(w, map[string]string{"end_date": err.Error()})
	case errors.Is(err, timesheet.ErrPeriodTooLong):
		ValidationError(w, map[string]string{"end_date": err.Error()})
	case errors.Is(err, timesheet.ErrForbiddenMirror):
		Forbidden(w, "Not allowed to view this timesheet")

	// Punch domain errors
	case errors.Is(err, punch.ErrEmptyFile):
		BadRequest(w, "File has no records", nil)
	case errors.Is(err, punch.ErrInvalidFileExtension):
		BadRequest(w, err.Error(), nil)

	// Justification domain errors
	case errors.Is(err, justification.ErrJustificationNotFound):
		NotFound(w, "Justification not found")
	case errors.Is(err, justification.ErrAttachmentNotFound):
		NotFound(w, "Attachment not found")
	case errors.Is(err, justification.ErrJustificationAlreadyReviewed):
		Conflict(w, "Justification already reviewed")
	case errors.Is(err, justification.ErrJustificationNotPending):
		Conflict(w, "Only pending justifications can be deleted")
	case errors.Is(err, justification.ErrCannotReviewOwn):
		Forbidden(w, "Cannot review own justification")
	case errors.Is(err, justification.ErrUnauthorizedAccess):
		Forbidden(w, "Unauthorized access to justification")
	case errors.Is(err, justification.ErrInvalidAttachmentType):
		BadRequest(w, err.Error(), nil)

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayDateExists):
		Conflict(w, "A holiday already exists on this date")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
