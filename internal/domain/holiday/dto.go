package holiday

import (
	"strings"

	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}
	if len(r.Description) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not exceed 255 characters",
		})
	}

	if r.Kind == "" {
		r.Kind = string(KindMunicipal)
	}
	if !validator.IsInSlice(r.Kind, validKinds) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: " + strings.Join(validKinds, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HolidayFilter defaults to the current year when both dates are empty.
type HolidayFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (f *HolidayFilter) Validate() error {
	var errs validator.ValidationErrors

	start, startValid := validator.IsValidDate(f.StartDate)
	if f.StartDate != "" && !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endValid := validator.IsValidDate(f.EndDate)
	if f.EndDate != "" && !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startValid && endValid && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID,
		Date:        h.Date.Format("2006-01-02"),
		Weekday:     h.Date.Weekday().String(),
		Description: h.Description,
		Kind:        string(h.Kind),
	}
}
