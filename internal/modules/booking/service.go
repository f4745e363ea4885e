package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resortdesk/internal/domain"
	"resortdesk/internal/notification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	bookings  BookingRepository
	resources ResourceRepository
	users     UserRepository
	credits   CreditLedger
	payments  PaymentCollaborator
	notifs    NotificationSender
	tiers     []domain.PolicyTier
	loggerf   func(format string, args ...interface{})
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	resources ResourceRepository,
	users UserRepository,
	credits CreditLedger,
	payments PaymentCollaborator,
	notifs NotificationSender,
	tiers []domain.PolicyTier,
	loggerf func(format string, args ...interface{}),
) *Service {
	if len(tiers) == 0 {
		tiers = domain.DefaultPolicyTiers()
	}
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings:  bookings,
		resources: resources,
		users:     users,
		credits:   credits,
		payments:  payments,
		notifs:    notifs,
		tiers:     tiers,
		loggerf:   loggerf,
		now:       time.Now,
	}
}

// isOverlapViolation recognizes the bookings_no_overlap exclusion constraint
// firing on insert or update. Under concurrent creates the pre-check can
// pass for both requests; the constraint is what guarantees exactly one wins.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if (pgErr.Code == "23P01" || pgErr.Code == "23505") && pgErr.ConstraintName == "bookings_no_overlap" {
			return true
		}
	}
	return false
}

func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*CreateBookingResult, error) {
	if req.Guests < 1 || req.Guests > maxGuests {
		return nil, ErrValidation
	}

	res, err := s.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !res.Active {
		return nil, ErrNotFound
	}
	if res.Capacity > 0 && req.Guests > res.Capacity {
		return nil, ErrValidation
	}

	var checkIn, checkOut time.Time
	var quote Quote

	switch res.Kind {
	case domain.ResourcePoolSession:
		if req.Date == nil {
			return nil, ErrValidation
		}
		checkIn = truncateDay(*req.Date)
		checkOut = checkIn.AddDate(0, 0, 1)
		quote = QuotePoolTicket(res, checkIn, req.Guests)
	default:
		if req.CheckIn == nil || req.CheckOut == nil {
			return nil, ErrValidation
		}
		checkIn = truncateDay(*req.CheckIn)
		checkOut = truncateDay(*req.CheckOut)
		if !checkOut.After(checkIn) {
			return nil, ErrValidation
		}
		quote = QuoteStay(res, checkIn, checkOut)
	}

	if checkIn.Before(truncateDay(s.now())) {
		return nil, ErrValidation
	}

	cnt, err := s.bookings.CountOverlapping(ctx, res.ID, checkIn, checkOut, 0)
	if err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrDatesUnavailable
	}

	b := &domain.Booking{
		ResourceID: res.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		Status:     domain.BookingPending,
		TotalPrice: quote.Total,
		Notes:      req.Notes,
	}
	if userID > 0 {
		b.UserID = &userID
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if isOverlapViolation(err) {
			return nil, ErrDatesUnavailable
		}
		return nil, err
	}

	if req.ApplyCredit && userID > 0 {
		applied, err := s.credits.Redeem(ctx, userID, quote.Total)
		if err != nil {
			s.loggerf("level=error msg=credit redemption failed booking_id=%d user_id=%d err=%v", b.ID, userID, err)
		} else if applied > 0 {
			b.CreditApplied = applied
			if err := s.bookings.Update(ctx, b); err != nil {
				return nil, err
			}
		}
	}

	due := roundCents(quote.Total - b.CreditApplied)
	var payment *domain.Payment

	if due > 0 {
		payment, err = s.payments.CreateIntent(ctx, b.ID, due)
		if err != nil {
			// The initial charge is correctness-critical: surface the
			// failure as a failed creation, releasing the dates.
			s.loggerf("level=error msg=payment intent failed booking_id=%d err=%v", b.ID, err)
			s.releaseFailedBooking(ctx, b)
			return nil, fmt.Errorf("%w: payment intent: %v", ErrDownstream, err)
		}
		b.PaymentRef = payment.Reference
		if err := s.bookings.Update(ctx, b); err != nil {
			return nil, err
		}
	} else {
		// Fully covered by account credit: nothing to charge.
		if err := b.Transition(domain.BookingConfirmed); err != nil {
			return nil, err
		}
		if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status); err != nil {
			return nil, err
		}
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingCreated(ctx, b); err != nil {
			s.loggerf("level=warn msg=booking created notification failed booking_id=%d err=%v", b.ID, err)
		}
	}

	return &CreateBookingResult{Booking: b, Quote: quote, Payment: payment}, nil
}

func (s *Service) releaseFailedBooking(ctx context.Context, b *domain.Booking) {
	if b.CreditApplied > 0 && b.UserID != nil {
		if err := s.credits.Grant(ctx, *b.UserID, b.CreditApplied, b.ID); err != nil {
			s.loggerf("level=error msg=credit restore failed booking_id=%d err=%v", b.ID, err)
		}
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingCancelled); err != nil {
		s.loggerf("level=error msg=failed booking release booking_id=%d err=%v", b.ID, err)
	}
}

func (s *Service) CancelBooking(ctx context.Context, bookingID, requesterID int64, reason string) (*CancelBookingResult, error) {
	b, err := s.getOwnedBooking(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}

	// Business rule ahead of the transition table: no refund logic may run
	// once a guest has checked in or the booking is terminal.
	if !b.Cancellable() {
		return nil, fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidStatus, b.Status)
	}

	now := s.now()
	tier := domain.ResolveTier(b.CheckIn, now, s.tiers)

	// The tier applies to what was actually charged in cash. Credit redeemed
	// against the booking comes back as credit, at the same percentage.
	charged := roundCents(b.TotalPrice - b.CreditApplied)
	split := SplitRefund(charged, tier)

	creditBack := 0.0
	if b.CreditApplied > 0 {
		creditBack = SplitRefund(b.CreditApplied, tier).RefundAmount
	}
	creditTotal := roundCents(split.CreditAmount + creditBack)

	if err := b.Transition(domain.BookingCancelled); err != nil {
		return nil, err
	}
	b.RefundAmount = split.RefundAmount
	b.CancellationReason = reason
	b.CancelledAt = &now

	// The cancellation itself commits first; everything after is
	// best-effort and must not roll it back.
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	if creditTotal > 0 && b.UserID != nil {
		if err := s.credits.Grant(ctx, *b.UserID, creditTotal, b.ID); err != nil {
			s.loggerf("level=error msg=credit grant failed booking_id=%d amount=%.2f err=%v", b.ID, creditTotal, err)
		}
	}

	refundIssued := false
	if split.RefundAmount > 0 && b.PaymentRef != "" {
		if err := s.payments.CreateRefund(ctx, b.PaymentRef, split.RefundAmount, reason); err != nil {
			// The booking stays cancelled; the declined refund is persisted
			// on the payment row for manual reconciliation.
			s.loggerf("level=error msg=refund failed booking_id=%d payment_ref=%s amount=%.2f err=%v",
				b.ID, b.PaymentRef, split.RefundAmount, err)
			if mErr := s.payments.MarkRefundFailed(ctx, b.PaymentRef, split.RefundAmount, reason); mErr != nil {
				s.loggerf("level=error msg=refund failure bookkeeping failed booking_id=%d payment_ref=%s err=%v",
					b.ID, b.PaymentRef, mErr)
			}
		} else {
			refundIssued = true
		}
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingCancelled(ctx, b, reason, split.RefundAmount, creditTotal); err != nil {
			s.loggerf("level=warn msg=cancellation notification failed booking_id=%d err=%v", b.ID, err)
		}
	}

	return &CancelBookingResult{
		Booking:      b,
		Tier:         tier,
		RefundAmount: split.RefundAmount,
		CreditAmount: creditTotal,
		RefundIssued: refundIssued,
	}, nil
}

func (s *Service) ModifyBookingDates(ctx context.Context, bookingID, requesterID int64, newCheckIn, newCheckOut time.Time) (*ModifyDatesResult, error) {
	b, err := s.getOwnedBooking(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}

	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return nil, fmt.Errorf("%w: cannot modify a %s booking", ErrInvalidStatus, b.Status)
	}

	res, err := s.resources.GetByID(ctx, b.ResourceID)
	if err != nil {
		return nil, err
	}
	if res.Kind != domain.ResourceChalet {
		return nil, ErrValidation
	}

	newCheckIn = truncateDay(newCheckIn)
	newCheckOut = truncateDay(newCheckOut)
	if !newCheckOut.After(newCheckIn) || newCheckIn.Before(truncateDay(s.now())) {
		return nil, ErrValidation
	}

	// The booking's own reservation must not count against itself.
	cnt, err := s.bookings.CountOverlapping(ctx, b.ResourceID, newCheckIn, newCheckOut, b.ID)
	if err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrDatesUnavailable
	}

	quote := QuoteStay(res, newCheckIn, newCheckOut)

	// Cash moves by the difference between what was charged and what the
	// new dates would charge; applied credit is not refundable as cash.
	oldCharged := roundCents(b.TotalPrice - b.CreditApplied)
	creditReturned := 0.0
	if b.CreditApplied > quote.Total {
		// The new price no longer absorbs all the applied credit; the
		// overhang goes back to the account, never out as a cash refund.
		creditReturned = roundCents(b.CreditApplied - quote.Total)
		b.CreditApplied = quote.Total
	}
	delta := roundCents(roundCents(quote.Total-b.CreditApplied) - oldCharged)

	b.CheckIn = newCheckIn
	b.CheckOut = newCheckOut
	b.TotalPrice = quote.Total

	if err := s.bookings.Update(ctx, b); err != nil {
		if isOverlapViolation(err) {
			return nil, ErrDatesUnavailable
		}
		return nil, err
	}

	if creditReturned > 0 && b.UserID != nil {
		if err := s.credits.Grant(ctx, *b.UserID, creditReturned, b.ID); err != nil {
			s.loggerf("level=error msg=credit restore failed booking_id=%d amount=%.2f err=%v", b.ID, creditReturned, err)
		}
	}

	result := &ModifyDatesResult{Booking: b, Quote: quote, PriceDelta: delta}

	switch {
	case delta > 0:
		// Caller must collect the difference; this service neither retries
		// nor holds funds.
		result.NewPaymentRequired = true
	case delta < 0 && b.PaymentRef != "":
		if err := s.payments.CreateRefund(ctx, b.PaymentRef, -delta, "booking dates modified"); err != nil {
			s.loggerf("level=error msg=partial refund failed booking_id=%d amount=%.2f err=%v", b.ID, -delta, err)
			if mErr := s.payments.MarkRefundFailed(ctx, b.PaymentRef, -delta, "booking dates modified"); mErr != nil {
				s.loggerf("level=error msg=refund failure bookkeeping failed booking_id=%d payment_ref=%s err=%v",
					b.ID, b.PaymentRef, mErr)
			}
		}
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingModified(ctx, b, delta, result.NewPaymentRequired); err != nil {
			s.loggerf("level=warn msg=modification notification failed booking_id=%d err=%v", b.ID, err)
		}
	}

	return result, nil
}

func (s *Service) CheckIn(ctx context.Context, bookingID, staffID int64) (*domain.Booking, error) {
	return s.staffTransition(ctx, bookingID, staffID, domain.BookingCheckedIn, notification.TypeBookingCheckedIn)
}

func (s *Service) CheckOut(ctx context.Context, bookingID, staffID int64) (*domain.Booking, error) {
	return s.staffTransition(ctx, bookingID, staffID, domain.BookingCheckedOut, notification.TypeBookingCheckedOut)
}

func (s *Service) MarkNoShow(ctx context.Context, bookingID, staffID int64) (*domain.Booking, error) {
	return s.staffTransition(ctx, bookingID, staffID, domain.BookingNoShow, notification.TypeBookingNoShow)
}

func (s *Service) staffTransition(ctx context.Context, bookingID, staffID int64, to domain.BookingStatus, eventType string) (*domain.Booking, error) {
	staff, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !staff.IsStaff() {
		return nil, ErrUnauthorized
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := b.Transition(to); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingStatus(ctx, b, eventType); err != nil {
			s.loggerf("level=warn msg=status notification failed booking_id=%d event=%s err=%v", b.ID, eventType, err)
		}
	}
	return b, nil
}

// ConfirmBooking is driven by the payment provider callback once the intent
// settles.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := b.Transition(domain.BookingConfirmed); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingConfirmed(ctx, b); err != nil {
			s.loggerf("level=warn msg=confirmation notification failed booking_id=%d err=%v", b.ID, err)
		}
	}
	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	return s.getOwnedBooking(ctx, bookingID, requesterID)
}

func (s *Service) ListMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

// getOwnedBooking loads a booking and enforces the owner-or-staff rule.
func (s *Service) getOwnedBooking(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.UserID != nil && *b.UserID == requesterID {
		return b, nil
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil || !requester.IsStaff() {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
