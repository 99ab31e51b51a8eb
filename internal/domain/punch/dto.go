package punch

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
)

// MaxImportFileSize bounds uploaded terminal exports (20MB)
const MaxImportFileSize = 20 << 20

var allowedImportExts = []string{".txt", ".csv", ".dat"}

// ========================================
// IMPORT DTOs
// ========================================

type ImportRequest struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"-"`
	File       io.Reader `json:"-"`
	ImportedBy *string   `json:"-"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Filename) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "file is required",
		})
	} else if !validator.IsInSlice(strings.ToLower(filepath.Ext(r.Filename)), allowedImportExts) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: ErrInvalidFileExtension.Error(),
		})
	}

	if r.File == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "file content is required",
		})
	}

	if r.Size > MaxImportFileSize {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "file size must not exceed 20MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ImportResponse struct {
	BatchID     string                         `json:"batch_id"`
	Filename    string                         `json:"filename"`
	TotalLines  int                            `json:"total_lines"`
	Imported    int                            `json:"imported"`
	Duplicates  int                            `json:"duplicates"`
	Rejected    int                            `json:"rejected"`
	Diagnostics []timesheet.DiagnosticResponse `json:"diagnostics"`
}

// ========================================
// LIST DTOs
// ========================================

type PunchResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Direction  string  `json:"direction"`
	TerminalID string  `json:"terminal_id,omitempty"`
	LocationID string  `json:"location_id,omitempty"`
	CompanyID  string  `json:"company_id,omitempty"`
	BatchID    *string `json:"batch_id,omitempty"`
}

type PunchFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Direction  *string `json:"direction,omitempty"`
	BatchID    *string `json:"batch_id,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PunchFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if f.Direction != nil && !Direction(*f.Direction).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "direction",
			Message: "direction must be one of: IN, OUT",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPunchResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Punches    []PunchResponse `json:"punches"`
}
