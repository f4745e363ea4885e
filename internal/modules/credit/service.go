package credit

import (
	"context"
	"errors"
	"math"
	"time"

	"resortdesk/internal/domain"
)

var ErrInvalidAmount = errors.New("credit amount must be positive")

type Service struct {
	credits CreditRepository
	loggerf func(format string, args ...interface{})
	now     func() time.Time
}

func NewService(credits CreditRepository, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{credits: credits, loggerf: loggerf, now: time.Now}
}

func (s *Service) Grant(ctx context.Context, userID int64, amount float64, sourceBookingID int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	now := s.now()
	// Cancellation credits stay usable for a year.
	c := &domain.UserCredit{
		UserID:    userID,
		Amount:    amount,
		Remaining: amount,
		ExpiresAt: now.AddDate(1, 0, 0),
	}
	if sourceBookingID > 0 {
		c.SourceBookingID = &sourceBookingID
	}

	if err := s.credits.Create(ctx, c); err != nil {
		return err
	}
	s.loggerf("level=info msg=credit granted user_id=%d amount=%.2f expires_at=%s",
		userID, amount, c.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Redeem consumes up to requested from the user's usable credits, draining
// the closest-to-expiry entries first. Returns the amount actually applied,
// which is zero when the user has no balance.
func (s *Service) Redeem(ctx context.Context, userID int64, requested float64) (float64, error) {
	if requested <= 0 {
		return 0, nil
	}

	usable, err := s.credits.ListUsable(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}

	remaining := requested
	applied := 0.0
	for _, c := range usable {
		if remaining <= 0 {
			break
		}
		take := math.Min(c.Remaining, remaining)
		if err := s.credits.UpdateRemaining(ctx, c.ID, roundCents(c.Remaining-take)); err != nil {
			// Stop at the first failed debit so the applied total always
			// matches what was persisted.
			if applied > 0 {
				return roundCents(applied), nil
			}
			return 0, err
		}
		applied += take
		remaining -= take
	}

	return roundCents(applied), nil
}

func (s *Service) Balance(ctx context.Context, userID int64) (float64, error) {
	usable, err := s.credits.ListUsable(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, c := range usable {
		total += c.Remaining
	}
	return roundCents(total), nil
}

func (s *Service) ListCredits(ctx context.Context, userID int64) ([]domain.UserCredit, error) {
	return s.credits.ListUsable(ctx, userID, s.now())
}

// ExpireSweep zeroes out lapsed balances. Called from the background worker.
func (s *Service) ExpireSweep(ctx context.Context) (int64, error) {
	return s.credits.ZeroExpired(ctx, s.now())
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
