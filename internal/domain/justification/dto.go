package justification

import (
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
)

const (
	MaxFutureDays         = 7
	MaxPastDays           = 90
	MinDescriptionLength  = 10
	MaxDescriptionLength  = 500
	MaxAttachmentFileSize = 10 << 20
)

var allowedAttachmentExts = []string{".pdf", ".jpg", ".jpeg", ".png"}

// ========================================
// CREATE
// ========================================

type CreateJustificationRequest struct {
	EmployeeID   string   `json:"employee_id"`
	CoveredDate  string   `json:"covered_date"` // YYYY-MM-DD
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	HoursCovered *float64 `json:"hours_covered,omitempty"`
	Channel      string   `json:"channel,omitempty"`

	Attachment     io.Reader `json:"-"`
	AttachmentName string    `json:"-"`
	AttachmentSize int64     `json:"-"`
}

func (r *CreateJustificationRequest) Validate() error {
	return r.validateAt(time.Now())
}

func (r *CreateJustificationRequest) validateAt(now time.Time) error {
	var errs validator.ValidationErrors

	date, valid := validator.IsValidDate(r.CoveredDate)
	if !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "covered_date",
			Message: "covered_date must be in YYYY-MM-DD format",
		})
	} else {
		today, _ := validator.IsValidDate(now.Format("2006-01-02"))
		if date.After(today.AddDate(0, 0, MaxFutureDays)) {
			errs = append(errs, validator.ValidationError{
				Field:   "covered_date",
				Message: "covered_date must not be more than 7 days in the future",
			})
		}
		if date.Before(today.AddDate(0, 0, -MaxPastDays)) {
			errs = append(errs, validator.ValidationError{
				Field:   "covered_date",
				Message: "covered_date must not be more than 90 days in the past",
			})
		}
	}

	if !validator.IsInSlice(r.Type, validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(validTypes, ", "),
		})
	}

	descLen := utf8.RuneCountInString(strings.TrimSpace(r.Description))
	if descLen < MinDescriptionLength {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must have at least 10 characters",
		})
	}
	if descLen > MaxDescriptionLength {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not exceed 500 characters",
		})
	}

	if r.HoursCovered != nil && (*r.HoursCovered <= 0 || *r.HoursCovered > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_covered",
			Message: "hours_covered must be greater than 0 and at most 24",
		})
	}

	if r.Channel == "" {
		r.Channel = string(ChannelSystem)
	}
	if !validator.IsInSlice(r.Channel, validChannels) {
		errs = append(errs, validator.ValidationError{
			Field:   "channel",
			Message: "channel must be one of: " + strings.Join(validChannels, ", "),
		})
	}

	if r.Attachment != nil {
		ext := strings.ToLower(filepath.Ext(r.AttachmentName))
		if !validator.IsInSlice(ext, allowedAttachmentExts) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: ErrInvalidAttachmentType.Error(),
			})
		}
		if r.AttachmentSize > MaxAttachmentFileSize {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: "attachment size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// REVIEW
// ========================================

type ReviewJustificationRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

func (r *ReviewJustificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Note != nil && utf8.RuneCountInString(*r.Note) > MaxDescriptionLength {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// LIST
// ========================================

type JustificationFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	Type       *string `json:"type,omitempty"`
	Channel    *string `json:"channel,omitempty"`

	// Set by the service from the caller's scope
	SecretariaID *string `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *JustificationFilter) Validate() error {
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
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PENDING, APPROVED, REJECTED",
		})
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(validTypes, ", "),
		})
	}
	if f.Channel != nil && !validator.IsInSlice(*f.Channel, validChannels) {
		errs = append(errs, validator.ValidationError{
			Field:   "channel",
			Message: "channel must be one of: " + strings.Join(validChannels, ", "),
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

// ========================================
// RESPONSES
// ========================================

type JustificationResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	EmployeeName      *string  `json:"employee_name,omitempty"`
	CoveredDate       string   `json:"covered_date"`
	Type              string   `json:"type"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	HoursCovered      *float64 `json:"hours_covered,omitempty"`
	FullDay           bool     `json:"full_day"`
	AttachmentURL     *string  `json:"attachment_url,omitempty"`
	AttachmentPresent bool     `json:"attachment_present"`
	Channel           string   `json:"channel"`
	ReviewedBy        *string  `json:"reviewed_by,omitempty"`
	ReviewedAt        *string  `json:"reviewed_at,omitempty"`
	ReviewNote        *string  `json:"review_note,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

type ListJustificationResponse struct {
	TotalCount     int64                   `json:"total_count"`
	Page           int                     `json:"page"`
	Limit          int                     `json:"limit"`
	TotalPages     int                     `json:"total_pages"`
	Justifications []JustificationResponse `json:"justifications"`
}

func NewJustificationResponse(j Justification) JustificationResponse {
	resp := JustificationResponse{
		ID:                j.ID,
		EmployeeID:        j.EmployeeID,
		EmployeeName:      j.EmployeeName,
		CoveredDate:       j.CoveredDate.Format("2006-01-02"),
		Type:              string(j.Type),
		Description:       j.Description,
		Status:            string(j.Status),
		HoursCovered:      j.HoursCovered,
		FullDay:           j.CoversFullDay(),
		AttachmentURL:     j.AttachmentURL,
		AttachmentPresent: j.AttachmentPresent(),
		Channel:           string(j.Channel),
		ReviewedBy:        j.ReviewedBy,
		ReviewNote:        j.ReviewNote,
		CreatedAt:         j.CreatedAt.Format(time.RFC3339),
	}
	if j.ReviewedAt != nil {
		reviewedAt := j.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}
