package payment

type WebhookRequest struct {
	Reference string  `form:"reference" json:"reference" binding:"required"`
	Event     string  `form:"event" json:"event" binding:"required"`
	Amount    float64 `form:"amount" json:"amount"`
	Signature string  `form:"signature" json:"signature" binding:"required"`
}

const (
	eventPaid   = "payment.paid"
	eventFailed = "payment.failed"
)
