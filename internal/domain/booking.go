package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
	BookingNoShow     BookingStatus = "no_show"
)

// transitions is the full set of legal status moves. Anything absent here
// fails with InvalidTransitionError.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingCheckedIn, BookingCancelled, BookingNoShow},
	BookingCheckedIn:  {BookingCheckedOut},
	BookingCheckedOut: {},
	BookingCancelled:  {},
	BookingNoShow:     {},
}

// InvalidTransitionError reports both sides of a rejected transition so the
// caller can render a precise message.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking status transition: %s -> %s", e.From, e.To)
}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is permitted from s.
func (s BookingStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID                 int64         `json:"id"`
	ResourceID         int64         `json:"resource_id"`
	UserID             *int64        `json:"user_id,omitempty"`
	CheckIn            time.Time     `json:"check_in"`
	CheckOut           time.Time     `json:"check_out"`
	Guests             int           `json:"guests"`
	Status             BookingStatus `json:"status"`
	TotalPrice         float64       `json:"total_price"`
	CreditApplied      float64       `json:"credit_applied,omitempty"`
	PaymentRef         string        `json:"payment_ref,omitempty"`
	RefundAmount       float64       `json:"refund_amount,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	Notes              string        `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Transition moves the booking to the given status or fails without
// mutating anything.
func (b *Booking) Transition(to BookingStatus) error {
	if !b.Status.CanTransitionTo(to) {
		return &InvalidTransitionError{From: b.Status, To: to}
	}
	b.Status = to
	return nil
}

// Cancellable is checked before the transition table: once a guest has
// checked in (or the booking is terminal), no refund logic may run at all.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Nights counts the nights in the half-open interval [CheckIn, CheckOut).
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Overlaps tests two half-open date ranges [aStart, aEnd) and [bStart, bEnd).
// A checkout on day X never conflicts with a check-in on day X.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
