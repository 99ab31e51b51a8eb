package justification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pontoagent/ponto-backend-go/internal/domain/employee"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/cache"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/storage"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
	"github.com/pontoagent/ponto-backend-go/internal/service/file"
)

var _ justification.JustificationService = (*JustificationServiceImpl)(nil)

type JustificationServiceImpl struct {
	justification.JustificationRepository
	employee.EmployeeRepository
	fileService file.FileService
	cache       cache.Cache
	refresher   timesheet.DayRefresher
	now         func() time.Time
}

// NewJustificationService wires the workflow. refresher may be nil, in which
// case stored day records are only updated by the next snapshot.
func NewJustificationService(justificationRepo justification.JustificationRepository, employeeRepo employee.EmployeeRepository, fileService file.FileService, c cache.Cache, refresher timesheet.DayRefresher) *JustificationServiceImpl {
	if c == nil {
		c = cache.Noop{}
	}
	return &JustificationServiceImpl{
		JustificationRepository: justificationRepo,
		EmployeeRepository:      employeeRepo,
		fileService:             fileService,
		cache:                   c,
		refresher:               refresher,
		now:                     time.Now,
	}
}

// Create implements justification.JustificationService. A servidor always
// files for themselves; managers may file on behalf of their employees.
func (s *JustificationServiceImpl) Create(ctx context.Context, req justification.CreateJustificationRequest) (justification.JustificationResponse, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return justification.JustificationResponse{}, err
	}

	if !principal.IsManager() || req.EmployeeID == "" {
		if principal.EmployeeID == nil {
			return justification.JustificationResponse{}, user.ErrEmployeeClaimRequired
		}
		req.EmployeeID = *principal.EmployeeID
	}

	if err := req.Validate(); err != nil {
		return justification.JustificationResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return justification.JustificationResponse{}, err
		}
		return justification.JustificationResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.Active {
		return justification.JustificationResponse{}, employee.ErrEmployeeInactive
	}
	if !principal.CanAccessEmployee(emp.ID, emp.SecretariaID) {
		return justification.JustificationResponse{}, justification.ErrUnauthorizedAccess
	}

	coveredDate, _ := validator.IsValidDate(req.CoveredDate)

	var attachmentPath *string
	if req.Attachment != nil {
		path, err := s.fileService.UploadJustificationAttachment(ctx, emp.ID, coveredDate, req.Attachment, req.AttachmentName)
		if err != nil {
			return justification.JustificationResponse{}, err
		}
		attachmentPath = &path
	}

	now := s.now()
	created, err := s.JustificationRepository.Create(ctx, justification.Justification{
		ID:            uuid.New().String(),
		EmployeeID:    emp.ID,
		CoveredDate:   coveredDate,
		Type:          justification.Type(req.Type),
		Description:   req.Description,
		Status:        justification.StatusPending,
		HoursCovered:  req.HoursCovered,
		AttachmentURL: attachmentPath,
		Channel:       justification.Channel(req.Channel),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		if attachmentPath != nil {
			if delErr := s.fileService.DeleteFile(ctx, *attachmentPath); delErr != nil {
				slog.Warn("Failed to remove orphan attachment", "path", *attachmentPath, "error", delErr)
			}
		}
		return justification.JustificationResponse{}, fmt.Errorf("failed to create justification: %w", err)
	}
	created.EmployeeName = &emp.Name
	created.EmployeeSecretariaID = emp.SecretariaID

	s.invalidate(ctx, emp.ID)

	slog.Info("Justification created",
		"justification_id", created.ID,
		"employee_id", emp.ID,
		"covered_date", req.CoveredDate,
		"type", req.Type,
		"channel", req.Channel,
	)

	return s.toResponse(ctx, created), nil
}

// Get implements justification.JustificationService.
func (s *JustificationServiceImpl) Get(ctx context.Context, id string) (justification.JustificationResponse, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return justification.JustificationResponse{}, err
	}

	j, err := s.getByID(ctx, id)
	if err != nil {
		return justification.JustificationResponse{}, err
	}
	if !principal.CanAccessEmployee(j.EmployeeID, j.EmployeeSecretariaID) {
		return justification.JustificationResponse{}, justification.ErrUnauthorizedAccess
	}

	return s.toResponse(ctx, j), nil
}

// List implements justification.JustificationService. Results are scoped to
// the caller: own requests for a servidor, own secretaria for a gestor.
func (s *JustificationServiceImpl) List(ctx context.Context, filter justification.JustificationFilter) (justification.ListJustificationResponse, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return justification.ListJustificationResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return justification.ListJustificationResponse{}, err
	}

	switch principal.Role {
	case user.RoleAdmin:
	case user.RoleManager:
		if principal.SecretariaID == nil {
			return justification.ListJustificationResponse{}, user.ErrManagerAccessRequired
		}
		filter.SecretariaID = principal.SecretariaID
	default:
		if principal.EmployeeID == nil {
			return justification.ListJustificationResponse{}, user.ErrEmployeeClaimRequired
		}
		filter.EmployeeID = principal.EmployeeID
		filter.SecretariaID = nil
	}

	items, total, err := s.JustificationRepository.List(ctx, filter)
	if err != nil {
		return justification.ListJustificationResponse{}, fmt.Errorf("failed to list justifications: %w", err)
	}

	responses := make([]justification.JustificationResponse, 0, len(items))
	for _, j := range items {
		responses = append(responses, s.toResponse(ctx, j))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return justification.ListJustificationResponse{
		TotalCount:     total,
		Page:           filter.Page,
		Limit:          filter.Limit,
		TotalPages:     totalPages,
		Justifications: responses,
	}, nil
}

// Approve implements justification.JustificationService.
func (s *JustificationServiceImpl) Approve(ctx context.Context, req justification.ReviewJustificationRequest) (justification.JustificationResponse, error) {
	return s.review(ctx, req, justification.StatusApproved)
}

// Reject implements justification.JustificationService.
func (s *JustificationServiceImpl) Reject(ctx context.Context, req justification.ReviewJustificationRequest) (justification.JustificationResponse, error) {
	return s.review(ctx, req, justification.StatusRejected)
}

func (s *JustificationServiceImpl) review(ctx context.Context, req justification.ReviewJustificationRequest, status justification.Status) (justification.JustificationResponse, error) {
	if err := req.Validate(); err != nil {
		return justification.JustificationResponse{}, err
	}

	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return justification.JustificationResponse{}, err
	}
	if !principal.IsManager() {
		return justification.JustificationResponse{}, user.ErrManagerAccessRequired
	}

	j, err := s.getByID(ctx, req.ID)
	if err != nil {
		return justification.JustificationResponse{}, err
	}
	if principal.EmployeeID != nil && *principal.EmployeeID == j.EmployeeID {
		return justification.JustificationResponse{}, justification.ErrCannotReviewOwn
	}
	if !principal.CanReview(j.EmployeeSecretariaID) {
		return justification.JustificationResponse{}, justification.ErrUnauthorizedAccess
	}
	if j.Status != justification.StatusPending {
		return justification.JustificationResponse{}, justification.ErrJustificationAlreadyReviewed
	}

	reviewer := principal.DisplayName()
	if err := s.JustificationRepository.UpdateReview(ctx, j.ID, status, reviewer, req.Note, s.now()); err != nil {
		if errors.Is(err, justification.ErrJustificationAlreadyReviewed) {
			return justification.JustificationResponse{}, err
		}
		return justification.JustificationResponse{}, fmt.Errorf("failed to review justification: %w", err)
	}

	s.invalidate(ctx, j.EmployeeID)

	if s.refresher != nil {
		if err := s.refresher.RefreshDay(ctx, j.EmployeeID, j.CoveredDate); err != nil {
			slog.Warn("Failed to refresh stored day record",
				"justification_id", j.ID,
				"employee_id", j.EmployeeID,
				"error", err,
			)
		}
	}

	slog.Info("Justification reviewed",
		"justification_id", j.ID,
		"employee_id", j.EmployeeID,
		"status", status,
		"reviewed_by", reviewer,
	)

	updated, err := s.getByID(ctx, j.ID)
	if err != nil {
		return justification.JustificationResponse{}, err
	}
	return s.toResponse(ctx, updated), nil
}

// Delete implements justification.JustificationService. Only pending
// requests can be withdrawn, by their owner or a reviewer.
func (s *JustificationServiceImpl) Delete(ctx context.Context, id string) error {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}

	j, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	isOwner := principal.EmployeeID != nil && *principal.EmployeeID == j.EmployeeID
	if !isOwner && !principal.CanReview(j.EmployeeSecretariaID) {
		return justification.ErrUnauthorizedAccess
	}
	if j.Status != justification.StatusPending {
		return justification.ErrJustificationNotPending
	}

	if err := s.JustificationRepository.Delete(ctx, j.ID); err != nil {
		if errors.Is(err, justification.ErrJustificationNotPending) || errors.Is(err, justification.ErrJustificationNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete justification: %w", err)
	}

	if j.AttachmentPresent() {
		if err := s.fileService.DeleteFile(ctx, *j.AttachmentURL); err != nil {
			slog.Warn("Failed to delete justification attachment", "justification_id", j.ID, "error", err)
		}
	}

	s.invalidate(ctx, j.EmployeeID)
	return nil
}

// Attachment implements justification.JustificationService.
func (s *JustificationServiceImpl) Attachment(ctx context.Context, id string) (io.ReadCloser, string, error) {
	principal, err := jwt.PrincipalFromContext(ctx)
	if err != nil {
		return nil, "", err
	}

	j, err := s.getByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !principal.CanAccessEmployee(j.EmployeeID, j.EmployeeSecretariaID) {
		return nil, "", justification.ErrUnauthorizedAccess
	}
	if !j.AttachmentPresent() {
		return nil, "", justification.ErrAttachmentNotFound
	}

	rc, err := s.fileService.OpenFile(ctx, *j.AttachmentURL)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", justification.ErrAttachmentNotFound
		}
		return nil, "", fmt.Errorf("failed to open attachment: %w", err)
	}
	return rc, filepath.Base(*j.AttachmentURL), nil
}

func (s *JustificationServiceImpl) getByID(ctx context.Context, id string) (justification.Justification, error) {
	j, err := s.JustificationRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, justification.ErrJustificationNotFound) {
			return justification.Justification{}, err
		}
		return justification.Justification{}, fmt.Errorf("failed to get justification: %w", err)
	}
	return j, nil
}

func (s *JustificationServiceImpl) invalidate(ctx context.Context, employeeID string) {
	if err := s.cache.Invalidate(ctx, timesheet.CacheTag(employeeID)); err != nil {
		slog.Warn("Failed to invalidate cached mirrors", "employee_id", employeeID, "error", err)
	}
}

// toResponse maps j and resolves its attachment path to a URL.
func (s *JustificationServiceImpl) toResponse(ctx context.Context, j justification.Justification) justification.JustificationResponse {
	resp := justification.NewJustificationResponse(j)
	if j.AttachmentPresent() && s.fileService != nil {
		url, err := s.fileService.GetFileURL(ctx, *j.AttachmentURL, 0)
		if err == nil {
			resp.AttachmentURL = &url
		}
	}
	return resp
}
