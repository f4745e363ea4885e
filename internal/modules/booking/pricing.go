package booking

import (
	"math"
	"time"

	"resortdesk/internal/domain"
)

// Quote is the price breakdown for a stay or a pool ticket.
type Quote struct {
	Nights        int     `json:"nights"`
	Subtotal      float64 `json:"subtotal"`
	WeekendMarkup float64 `json:"weekend_markup"`
	Total         float64 `json:"total"`
}

// isWeekendNight: Friday, Saturday and Sunday nights carry the markup.
// One definition, used everywhere the weekend concept appears.
func isWeekendNight(night time.Time) bool {
	switch night.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// QuoteStay walks each night in [checkIn, checkOut) and adds the weekend
// markup per qualifying night: base * markupPct / 100.
func QuoteStay(res *domain.Resource, checkIn, checkOut time.Time) Quote {
	var q Quote
	for night := checkIn; night.Before(checkOut); night = night.AddDate(0, 0, 1) {
		q.Nights++
		if isWeekendNight(night) && res.WeekendMarkupPct > 0 {
			q.WeekendMarkup += res.BasePrice * res.WeekendMarkupPct / 100
		}
	}
	q.Subtotal = roundCents(float64(q.Nights) * res.BasePrice)
	q.WeekendMarkup = roundCents(q.WeekendMarkup)
	q.Total = roundCents(q.Subtotal + q.WeekendMarkup)
	return q
}

// QuotePoolTicket prices a single-day pool session: per ticket, per guest.
// Weekend sessions carry the same markup as weekend nights.
func QuotePoolTicket(res *domain.Resource, date time.Time, guests int) Quote {
	q := Quote{Nights: 1}
	q.Subtotal = roundCents(res.BasePrice * float64(guests))
	if isWeekendNight(date) && res.WeekendMarkupPct > 0 {
		q.WeekendMarkup = roundCents(q.Subtotal * res.WeekendMarkupPct / 100)
	}
	q.Total = roundCents(q.Subtotal + q.WeekendMarkup)
	return q
}
