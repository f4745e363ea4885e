package booking

import (
	"math"

	"resortdesk/internal/domain"
)

// RefundSplit is the cash/credit outcome of applying a cancellation tier to
// the originally charged amount.
type RefundSplit struct {
	RefundAmount float64 `json:"refund_amount"`
	CreditAmount float64 `json:"credit_amount"`
}

// SplitRefund computes refund = total * percent / 100 in integer cents with
// round-half-up. When the tier grants credit, the non-refunded remainder
// becomes account credit, so refund + credit never exceeds total.
func SplitRefund(total float64, tier domain.PolicyTier) RefundSplit {
	if total <= 0 {
		return RefundSplit{}
	}

	pct := int64(tier.RefundPercent)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	totalCents := int64(math.Round(total * 100))
	refundCents := (totalCents*pct + 50) / 100

	split := RefundSplit{RefundAmount: float64(refundCents) / 100}
	if tier.RefundType == domain.RefundCredit {
		split.CreditAmount = float64(totalCents-refundCents) / 100
	}
	return split
}
