package punch

import "context"

// PunchService defines punch import and listing
type PunchService interface {
	// Import parses a terminal export and stores its valid punches
	Import(ctx context.Context, req ImportRequest) (ImportResponse, error)

	// List lists stored punches
	List(ctx context.Context, filter PunchFilter) (ListPunchResponse, error)
}
