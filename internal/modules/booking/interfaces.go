package booking

import (
	"context"
	"time"

	"resortdesk/internal/domain"
	"resortdesk/internal/repository"
)

// BookingRepository is the persistence surface the orchestrator needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CountOverlapping(ctx context.Context, resourceID int64, checkIn, checkOut time.Time, excludeBookingID int64) (int64, error)
	Update(ctx context.Context, b *domain.Booking) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	BusyRanges(ctx context.Context, resourceID int64, from, to time.Time) ([]repository.BusyRange, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
}

type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// CreditLedger grants and redeems account credit.
type CreditLedger interface {
	Redeem(ctx context.Context, userID int64, requested float64) (float64, error)
	Grant(ctx context.Context, userID int64, amount float64, sourceBookingID int64) error
}

// PaymentCollaborator fronts the card provider. Refunds are idempotent by
// reference on the provider side; a refund that could not be issued is
// recorded against the payment row so reconciliation can retry it.
type PaymentCollaborator interface {
	CreateIntent(ctx context.Context, bookingID int64, amount float64) (*domain.Payment, error)
	CreateRefund(ctx context.Context, paymentRef string, amount float64, reason string) error
	MarkRefundFailed(ctx context.Context, paymentRef string, amount float64, reason string) error
}

// NotificationSender records outbound booking events; implementations must
// be safe to fail without affecting the primary operation.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, b *domain.Booking) error
	NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error
	NotifyBookingCancelled(ctx context.Context, b *domain.Booking, reason string, refund, credit float64) error
	NotifyBookingModified(ctx context.Context, b *domain.Booking, priceDelta float64, newPaymentRequired bool) error
	NotifyBookingStatus(ctx context.Context, b *domain.Booking, eventType string) error
}
