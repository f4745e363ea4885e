package notification

import (
	"context"

	"resortdesk/internal/domain"
	outbox "resortdesk/internal/notification"
)

type outboxWriter interface {
	Create(ctx context.Context, n *outbox.Notification) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]outbox.Notification, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
