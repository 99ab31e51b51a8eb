package justification

import (
	"context"
	"io"
)

// JustificationService handles the justification workflow. The caller is
// taken from the verified token in ctx.
type JustificationService interface {
	Create(ctx context.Context, req CreateJustificationRequest) (JustificationResponse, error)
	Get(ctx context.Context, id string) (JustificationResponse, error)
	List(ctx context.Context, filter JustificationFilter) (ListJustificationResponse, error)
	Approve(ctx context.Context, req ReviewJustificationRequest) (JustificationResponse, error)
	Reject(ctx context.Context, req ReviewJustificationRequest) (JustificationResponse, error)
	Delete(ctx context.Context, id string) error

	// Attachment opens the stored attachment and returns it with its file name
	Attachment(ctx context.Context, id string) (io.ReadCloser, string, error)
}
