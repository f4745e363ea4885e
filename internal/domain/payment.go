package domain

import "time"

type PaymentStatus string

const (
	PaymentCreated           PaymentStatus = "created"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentRefundFailed      PaymentStatus = "refund_failed"
)

// Payment mirrors one provider charge for a booking. Reference is the
// provider-side identifier and the idempotency anchor for refunds.
type Payment struct {
	ID          int64         `json:"id"`
	BookingID   int64         `json:"booking_id"`
	Reference   string        `json:"reference"`
	Amount      float64       `json:"amount"`
	Status      PaymentStatus `json:"status"`
	CheckoutURL string        `json:"checkout_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type RefundStatus string

const (
	RefundIssued   RefundStatus = "issued"
	RefundDeclined RefundStatus = "declined"
)

type PaymentRefund struct {
	ID        int64        `json:"id"`
	PaymentID int64        `json:"payment_id"`
	Reference string       `json:"reference"`
	Amount    float64      `json:"amount"`
	Reason    string       `json:"reason,omitempty" gorm:"type:text"`
	Status    RefundStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
