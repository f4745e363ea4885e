package repository

import (
	"context"
	"time"

	"resortdesk/internal/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// PendingBatch fetches up to limit undelivered outbox rows, oldest first.
func (r *NotificationRepository) PendingBatch(ctx context.Context, limit int) ([]notification.Notification, error) {
	var rows []notification.Notification
	tx := r.db.WithContext(ctx).
		Where("status = ?", notification.StatusPending).
		Order("created_at").
		Limit(limit).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  notification.StatusSent,
			"sent_at": at,
		}).Error
}

// MarkFailed bumps the attempt counter; rows past maxAttempts are parked as
// failed for the out-of-band reconciliation process.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, attempts, maxAttempts int) error {
	status := notification.StatusPending
	if attempts >= maxAttempts {
		status = notification.StatusFailed
	}
	return r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   status,
			"attempts": attempts,
		}).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]notification.Notification, error) {
	var rows []notification.Notification
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
