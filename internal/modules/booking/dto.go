package booking

import (
	"time"

	"resortdesk/internal/domain"
)

const maxGuests = 20

type CreateBookingRequest struct {
	ResourceID int64 `json:"resource_id" binding:"required"`
	// Chalet stays set CheckIn/CheckOut; pool tickets set Date instead.
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Guests      int        `json:"guests" binding:"required"`
	ApplyCredit bool       `json:"apply_credit"`
	Notes       string     `json:"notes"`
}

type CreateBookingResult struct {
	Booking *domain.Booking `json:"booking"`
	Quote   Quote           `json:"quote"`
	Payment *domain.Payment `json:"payment,omitempty"`
}

// CancelBookingResult reports both tenders: RefundAmount is cash back to the
// card (computed over the cash charge, never the credit portion) and
// CreditAmount is what lands on the account, including re-granted credit.
type CancelBookingResult struct {
	Booking      *domain.Booking   `json:"booking"`
	Tier         domain.PolicyTier `json:"tier"`
	RefundAmount float64           `json:"refund_amount"`
	CreditAmount float64           `json:"credit_amount"`
	RefundIssued bool              `json:"refund_issued"`
}

type ModifyDatesRequest struct {
	CheckIn  time.Time `json:"check_in" binding:"required"`
	CheckOut time.Time `json:"check_out" binding:"required"`
}

// ModifyDatesResult carries the cash movement: PriceDelta compares what was
// charged against what the new dates charge after applied credit.
type ModifyDatesResult struct {
	Booking            *domain.Booking `json:"booking"`
	Quote              Quote           `json:"quote"`
	PriceDelta         float64         `json:"price_delta"`
	NewPaymentRequired bool            `json:"new_payment_required"`
}
