package domain

import "time"

type ResourceKind string

const (
	ResourceChalet      ResourceKind = "chalet"
	ResourcePoolSession ResourceKind = "pool_session"
)

// Resource is anything a guest can reserve. Chalets price per night,
// pool sessions price per ticket.
type Resource struct {
	ID               int64        `json:"id"`
	Kind             ResourceKind `json:"kind"`
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty" gorm:"type:text"`
	BasePrice        float64      `json:"base_price"`
	WeekendMarkupPct float64      `json:"weekend_markup_pct"`
	Capacity         int          `json:"capacity"`
	Active           bool         `json:"active"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
