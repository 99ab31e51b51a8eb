package justification

import (
	"context"
	"time"
)

type JustificationRepository interface {
	Create(ctx context.Context, j Justification) (Justification, error)

	// GetByID retrieves a justification joined with its employee
	GetByID(ctx context.Context, id string) (Justification, error)

	// List retrieves justifications with filters and pagination
	List(ctx context.Context, filter JustificationFilter) ([]Justification, int64, error)

	// ListByEmployeeAndRange returns justifications of any status whose
	// covered date is in [from, to]
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Justification, error)

	// ListByRange returns justifications of all employees in [from, to]
	ListByRange(ctx context.Context, from, to time.Time) ([]Justification, error)

	// UpdateReview moves a PENDING justification to status. Returns
	// ErrJustificationAlreadyReviewed when it is no longer pending.
	UpdateReview(ctx context.Context, id string, status Status, reviewedBy string, note *string, reviewedAt time.Time) error

	// Delete removes a PENDING justification
	Delete(ctx context.Context, id string) error

	CountPending(ctx context.Context) (int64, error)
}
