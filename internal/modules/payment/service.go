package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"

	"resortdesk/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAmountMismatch   = errors.New("amount mismatch")
	ErrUnknownEvent     = errors.New("unknown webhook event")
)

// Service fronts a hosted-checkout payment provider. Charges are created as
// signed checkout links; the provider reports the outcome through the
// webhook, which is the only path that confirms a booking.
type Service struct {
	payments paymentRepo
	bookings bookingConfirmer
	loggerf  func(format string, args ...interface{})

	merchantID string
	secret     string
	baseURL    string
	returnURL  string
}

func NewService(payments paymentRepo, bookings bookingConfirmer, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		payments:   payments,
		bookings:   bookings,
		loggerf:    loggerf,
		merchantID: os.Getenv("PAYMENT_MERCHANT_ID"),
		secret:     os.Getenv("PAYMENT_SECRET"),
		baseURL:    envOrDefault("PAYMENT_BASE_URL", "https://pay.example.com/checkout"),
		returnURL:  os.Getenv("PAYMENT_RETURN_URL"),
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func (s *Service) CreateIntent(ctx context.Context, bookingID int64, amount float64) (*domain.Payment, error) {
	if s.merchantID == "" || s.secret == "" {
		return nil, fmt.Errorf("payment provider credentials are not configured")
	}

	reference := uuid.NewString()
	outSum := formatAmount(amount)
	signature := s.sign(s.merchantID, reference, outSum)

	u := url.Values{}
	u.Set("merchant", s.merchantID)
	u.Set("reference", reference)
	u.Set("amount", outSum)
	u.Set("signature", signature)
	if s.returnURL != "" {
		u.Set("return_url", s.returnURL)
	}

	p := &domain.Payment{
		BookingID:   bookingID,
		Reference:   reference,
		Amount:      amount,
		Status:      domain.PaymentCreated,
		CheckoutURL: s.baseURL + "?" + u.Encode(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save payment failed: %w", err)
	}

	s.loggerf("level=info msg=payment intent created booking_id=%d reference=%s amount=%s", bookingID, reference, outSum)
	return p, nil
}

// CreateRefund records a refund against a settled charge. The refund row
// carries its own reference so a retried call never double-submits to the
// provider.
func (s *Service) CreateRefund(ctx context.Context, paymentRef string, amount float64, reason string) error {
	p, err := s.payments.GetByReference(ctx, paymentRef)
	if err != nil {
		return fmt.Errorf("payment lookup failed: %w", err)
	}

	rf := &domain.PaymentRefund{
		PaymentID: p.ID,
		Reference: uuid.NewString(),
		Amount:    amount,
		Reason:    reason,
		Status:    domain.RefundIssued,
	}
	if err := s.payments.CreateRefund(ctx, rf); err != nil {
		return fmt.Errorf("save refund failed: %w", err)
	}

	status := domain.PaymentPartiallyRefunded
	if amount >= p.Amount {
		status = domain.PaymentRefunded
	}
	if err := s.payments.UpdateStatus(ctx, p.ID, status); err != nil {
		s.loggerf("level=error msg=failed to update payment status after refund payment_id=%d err=%v", p.ID, err)
	}

	s.loggerf("level=info msg=refund issued payment_ref=%s refund_ref=%s amount=%s", paymentRef, rf.Reference, formatAmount(amount))
	return nil
}

// MarkRefundFailed records a refund the provider declined or that never
// reached it. The payment row moves to refund_failed so the charge shows up
// in manual reconciliation instead of silently staying settled.
func (s *Service) MarkRefundFailed(ctx context.Context, paymentRef string, amount float64, reason string) error {
	p, err := s.payments.GetByReference(ctx, paymentRef)
	if err != nil {
		return fmt.Errorf("payment lookup failed: %w", err)
	}

	rf := &domain.PaymentRefund{
		PaymentID: p.ID,
		Reference: uuid.NewString(),
		Amount:    amount,
		Reason:    reason,
		Status:    domain.RefundDeclined,
	}
	if err := s.payments.CreateRefund(ctx, rf); err != nil {
		return fmt.Errorf("save refund failed: %w", err)
	}
	if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentRefundFailed); err != nil {
		return fmt.Errorf("update payment status failed: %w", err)
	}

	s.loggerf("level=warn msg=refund marked failed payment_ref=%s refund_ref=%s amount=%s", paymentRef, rf.Reference, formatAmount(amount))
	return nil
}

func (s *Service) HandleWebhook(ctx context.Context, req WebhookRequest) error {
	outSum := formatAmount(req.Amount)
	valid := hmac.Equal([]byte(strings.ToLower(req.Signature)), []byte(s.sign(req.Reference, outSum, req.Event)))
	s.loggerf("level=info msg=webhook signature validation reference=%s event=%s signature_valid=%t", req.Reference, req.Event, valid)
	if !valid {
		return ErrInvalidSignature
	}

	p, err := s.payments.GetByReference(ctx, req.Reference)
	if err != nil {
		return err
	}

	switch req.Event {
	case eventPaid:
		if !amountEqual(req.Amount, p.Amount) {
			s.loggerf("level=error msg=webhook amount mismatch reference=%s callback=%s expected=%s",
				req.Reference, outSum, formatAmount(p.Amount))
			if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentFailed); err != nil {
				s.loggerf("level=error msg=failed to mark payment failed payment_id=%d err=%v", p.ID, err)
			}
			return ErrAmountMismatch
		}
		if p.Status == domain.PaymentPaid {
			s.loggerf("level=info msg=idempotent webhook already paid reference=%s", req.Reference)
			return nil
		}
		if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentPaid); err != nil {
			return err
		}
		if _, err := s.bookings.ConfirmBooking(ctx, p.BookingID); err != nil {
			// The charge is settled either way; confirmation is retried by
			// hand when this fires.
			s.loggerf("level=error msg=failed to confirm booking after payment booking_id=%d err=%v", p.BookingID, err)
		}
		return nil
	case eventFailed:
		return s.payments.UpdateStatus(ctx, p.ID, domain.PaymentFailed)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, req.Event)
	}
}

func (s *Service) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	return s.payments.GetByBookingID(ctx, bookingID)
}

func (s *Service) sign(parts ...string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(mac.Sum(nil))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func amountEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
