package booking

import (
	"testing"
	"time"

	"resortdesk/internal/domain"

	"github.com/stretchr/testify/assert"
)

func chalet(base, markupPct float64) *domain.Resource {
	return &domain.Resource{
		ID:               1,
		Kind:             domain.ResourceChalet,
		BasePrice:        base,
		WeekendMarkupPct: markupPct,
		Capacity:         8,
		Active:           true,
	}
}

func TestQuoteStay_WeekdaysNoMarkup(t *testing.T) {
	// Tue 2026-01-06 -> Thu 2026-01-08: two weekday nights.
	checkIn := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)

	q := QuoteStay(chalet(100, 0), checkIn, checkOut)

	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 0.0, q.WeekendMarkup)
	assert.Equal(t, 200.0, q.Total)
}

func TestQuoteStay_WeekendMarkup(t *testing.T) {
	// Fri 2026-01-09 -> Sun 2026-01-11: Friday and Saturday nights, both
	// weekend nights under the Fri/Sat/Sun rule.
	checkIn := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)

	q := QuoteStay(chalet(100, 20), checkIn, checkOut)

	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 40.0, q.WeekendMarkup)
	assert.Equal(t, 240.0, q.Total)
}

func TestQuoteStay_SundayNightCarriesMarkup(t *testing.T) {
	// Sun 2026-01-11 -> Mon 2026-01-12: one night, Sunday, marked up.
	checkIn := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	q := QuoteStay(chalet(100, 20), checkIn, checkOut)

	assert.Equal(t, 1, q.Nights)
	assert.Equal(t, 20.0, q.WeekendMarkup)
	assert.Equal(t, 120.0, q.Total)
}

func TestQuoteStay_MixedWeek(t *testing.T) {
	// Thu 2026-01-08 -> Mon 2026-01-12: Thu, Fri, Sat, Sun nights.
	// Three of four carry the markup.
	checkIn := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	q := QuoteStay(chalet(150, 10), checkIn, checkOut)

	assert.Equal(t, 4, q.Nights)
	assert.Equal(t, 600.0, q.Subtotal)
	assert.Equal(t, 45.0, q.WeekendMarkup)
	assert.Equal(t, 645.0, q.Total)
}

func TestQuoteStay_CentsRounding(t *testing.T) {
	checkIn := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC) // Fri
	checkOut := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	// 99.99 * 15% = 14.9985 -> 15.00 markup
	q := QuoteStay(chalet(99.99, 15), checkIn, checkOut)

	assert.Equal(t, 99.99, q.Subtotal)
	assert.Equal(t, 15.0, q.WeekendMarkup)
	assert.Equal(t, 114.99, q.Total)
}

func TestQuotePoolTicket(t *testing.T) {
	pool := &domain.Resource{
		ID:               2,
		Kind:             domain.ResourcePoolSession,
		BasePrice:        12.50,
		WeekendMarkupPct: 20,
		Capacity:         50,
		Active:           true,
	}

	// Wednesday: no markup.
	q := QuotePoolTicket(pool, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), 4)
	assert.Equal(t, 50.0, q.Subtotal)
	assert.Equal(t, 0.0, q.WeekendMarkup)
	assert.Equal(t, 50.0, q.Total)

	// Saturday: 20% on the ticket subtotal.
	q = QuotePoolTicket(pool, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), 4)
	assert.Equal(t, 50.0, q.Subtotal)
	assert.Equal(t, 10.0, q.WeekendMarkup)
	assert.Equal(t, 60.0, q.Total)
}
