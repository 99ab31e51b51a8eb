package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// Create returns ErrHolidayDateExists when the date is taken
	Create(ctx context.Context, h Holiday) (Holiday, error)

	// ListByRange returns active holidays in [from, to] ordered by date
	ListByRange(ctx context.Context, from, to time.Time) ([]Holiday, error)

	Delete(ctx context.Context, id string) error
}
