package catalog

import (
	"context"
	"time"

	"resortdesk/internal/domain"
	"resortdesk/internal/repository"
)

type resourceRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, kind string) ([]domain.Resource, error)
}

type calendarRepo interface {
	BusyRanges(ctx context.Context, resourceID int64, from, to time.Time) ([]repository.BusyRange, error)
}
