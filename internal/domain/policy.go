package domain

import (
	"sort"
	"time"
)

type RefundType string

const (
	RefundFull    RefundType = "full"
	RefundPartial RefundType = "partial"
	RefundCredit  RefundType = "credit"
	RefundNone    RefundType = "none"
)

// PolicyTier maps a minimum lead time (whole days before check-in) to a
// refund percentage and type.
type PolicyTier struct {
	DaysBeforeCheckIn int        `json:"days_before_check_in"`
	RefundPercent     int        `json:"refund_percent"`
	RefundType        RefundType `json:"refund_type"`
}

// DefaultPolicyTiers is the production policy unless overridden by
// deployment configuration.
func DefaultPolicyTiers() []PolicyTier {
	return []PolicyTier{
		{DaysBeforeCheckIn: 14, RefundPercent: 100, RefundType: RefundFull},
		{DaysBeforeCheckIn: 7, RefundPercent: 50, RefundType: RefundPartial},
		{DaysBeforeCheckIn: 3, RefundPercent: 25, RefundType: RefundPartial},
		{DaysBeforeCheckIn: 0, RefundPercent: 0, RefundType: RefundNone},
	}
}

// DaysUntil is the lead time in whole days, rounded up. Same-day or past
// check-ins yield zero or negative values.
func DaysUntil(checkIn, now time.Time) int {
	hours := checkIn.Sub(now).Hours()
	days := int(hours / 24)
	if float64(days*24) < hours {
		days++
	}
	return days
}

// ResolveTier picks the tier with the largest threshold the lead time still
// satisfies. If none qualify, the most restrictive tier (smallest threshold)
// applies. The input slice is not modified.
func ResolveTier(checkIn, now time.Time, tiers []PolicyTier) PolicyTier {
	if len(tiers) == 0 {
		return PolicyTier{RefundType: RefundNone}
	}

	sorted := make([]PolicyTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DaysBeforeCheckIn > sorted[j].DaysBeforeCheckIn
	})

	lead := DaysUntil(checkIn, now)
	for _, t := range sorted {
		if lead >= t.DaysBeforeCheckIn {
			return t
		}
	}
	return sorted[len(sorted)-1]
}
