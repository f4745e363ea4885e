package payment

import (
	"context"

	"resortdesk/internal/domain"
)

type paymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByReference(ctx context.Context, reference string) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	CreateRefund(ctx context.Context, rf *domain.PaymentRefund) error
}

// bookingConfirmer advances the booking once the provider reports the charge
// settled.
type bookingConfirmer interface {
	ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

// ConfirmerFunc adapts a plain function to bookingConfirmer. The booking
// service is also a consumer of this package, so wiring goes through a
// closure instead of a direct reference.
type ConfirmerFunc func(ctx context.Context, bookingID int64) (*domain.Booking, error)

func (f ConfirmerFunc) ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return f(ctx, bookingID)
}
