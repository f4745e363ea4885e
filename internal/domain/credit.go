package domain

import "time"

// UserCredit is a non-cash balance granted instead of (or alongside) a cash
// refund. Redemption consumes credits FIFO by expiry date.
type UserCredit struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	Amount          float64    `json:"amount"`
	Remaining       float64    `json:"remaining"`
	ExpiresAt       time.Time  `json:"expires_at"`
	SourceBookingID *int64     `json:"source_booking_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (c *UserCredit) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

func (c *UserCredit) Usable(now time.Time) bool {
	return c.Remaining > 0 && !c.Expired(now)
}
