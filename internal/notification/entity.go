package notification

import (
	"encoding/json"
	"time"
)

// Notification type constants
const (
	TypeBookingCreated    = "booking.created"
	TypeBookingConfirmed  = "booking.confirmed"
	TypeBookingCancelled  = "booking.cancelled"
	TypeBookingModified   = "booking.modified"
	TypeBookingCheckedIn  = "booking.checked_in"
	TypeBookingCheckedOut = "booking.checked_out"
	TypeBookingNoShow     = "booking.no_show"
	TypeCreditGranted     = "credit.granted"
)

// Delivery status for the outbox. Rows are written in the same flow as the
// booking state change and drained by the background worker, so a provider
// outage never blocks a guest-facing operation.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Data holds structured notification metadata.
type Data struct {
	BookingID    *int64                 `json:"booking_id,omitempty"`
	ResourceID   *int64                 `json:"resource_id,omitempty"`
	RefundAmount *float64               `json:"refund_amount,omitempty"`
	CreditAmount *float64               `json:"credit_amount,omitempty"`
	Extra        map[string]interface{} `json:"extra,omitempty"`
}

func (d *Data) Encode() string {
	raw, _ := json.Marshal(d)
	return string(raw)
}

// Notification is one outbox row: an in-app event plus, when Recipient is
// set, a pending email.
type Notification struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    *int64     `gorm:"index" json:"user_id,omitempty"`
	Type      string     `gorm:"index" json:"type"`
	Title     string     `json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	Data      string     `gorm:"type:jsonb" json:"data"`
	Recipient string     `json:"recipient,omitempty"`
	Status    string     `gorm:"index;default:pending" json:"status"`
	Attempts  int        `json:"attempts"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (n *Notification) TableName() string { return "notifications" }

func (n *Notification) MarkSent(now time.Time) {
	n.Status = StatusSent
	n.SentAt = &now
}
