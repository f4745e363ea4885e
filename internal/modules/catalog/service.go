package catalog

import (
	"context"
	"errors"
	"time"

	"resortdesk/internal/domain"
	"resortdesk/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidRange = errors.New("invalid calendar range")
)

// The calendar endpoint caps the queried window to keep result sets small.
const maxCalendarDays = 366

type Service struct {
	resources resourceRepo
	calendar  calendarRepo
	now       func() time.Time
}

func NewService(resources resourceRepo, calendar calendarRepo) *Service {
	return &Service{resources: resources, calendar: calendar, now: time.Now}
}

func (s *Service) ListResources(ctx context.Context, kind string) ([]domain.Resource, error) {
	switch kind {
	case "", string(domain.ResourceChalet), string(domain.ResourcePoolSession):
	default:
		return nil, ErrNotFound
	}
	return s.resources.List(ctx, kind)
}

func (s *Service) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !res.Active {
		return nil, ErrNotFound
	}
	return res, nil
}

// Calendar returns the occupied periods for a resource so clients can grey
// out unavailable dates. Defaults to the next 90 days.
func (s *Service) Calendar(ctx context.Context, resourceID int64, from, to time.Time) ([]repository.BusyRange, error) {
	if _, err := s.GetResource(ctx, resourceID); err != nil {
		return nil, err
	}

	if from.IsZero() {
		from = s.now()
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 90)
	}
	if !to.After(from) || to.Sub(from) > maxCalendarDays*24*time.Hour {
		return nil, ErrInvalidRange
	}

	return s.calendar.BusyRanges(ctx, resourceID, from, to)
}
