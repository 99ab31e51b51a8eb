package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/cache"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/validator"
)

var _ holiday.HolidayService = (*HolidayServiceImpl)(nil)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
	cache cache.Cache
	now   func() time.Time
}

func NewHolidayService(holidayRepo holiday.HolidayRepository, c cache.Cache) *HolidayServiceImpl {
	if c == nil {
		c = cache.Noop{}
	}
	return &HolidayServiceImpl{
		HolidayRepository: holidayRepo,
		cache:             c,
		now:               time.Now,
	}
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		ID:          uuid.New().String(),
		Date:        date,
		Description: req.Description,
		Kind:        holiday.Kind(req.Kind),
		Active:      true,
		CreatedAt:   s.now(),
	})
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayDateExists) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	s.invalidate(ctx)
	slog.Info("Holiday created", "holiday_id", created.ID, "date", req.Date, "kind", req.Kind)

	return holiday.NewHolidayResponse(created), nil
}

// List implements holiday.HolidayService. An empty filter lists the
// current year; a single bound extends to the end or start of its year.
func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start, hasStart := validator.IsValidDate(filter.StartDate)
	end, hasEnd := validator.IsValidDate(filter.EndDate)
	switch {
	case !hasStart && !hasEnd:
		year := s.now().Year()
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	case !hasEnd:
		end = time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	case !hasStart:
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	holidays, err := s.HolidayRepository.ListByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.HolidayRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	s.invalidate(ctx)
	slog.Info("Holiday deleted", "holiday_id", id)
	return nil
}

func (s *HolidayServiceImpl) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, timesheet.HolidaysCacheTag); err != nil {
		slog.Warn("Failed to invalidate cached mirrors", "error", err)
	}
}
