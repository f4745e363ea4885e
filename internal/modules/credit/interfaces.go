package credit

import (
	"context"
	"time"

	"resortdesk/internal/domain"
)

type CreditRepository interface {
	Create(ctx context.Context, c *domain.UserCredit) error
	ListUsable(ctx context.Context, userID int64, now time.Time) ([]domain.UserCredit, error)
	UpdateRemaining(ctx context.Context, id int64, remaining float64) error
	ZeroExpired(ctx context.Context, now time.Time) (int64, error)
}
