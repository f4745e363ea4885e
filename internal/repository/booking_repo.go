package repository

import (
	"context"
	"time"

	"resortdesk/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ResourceID         int64      `gorm:"column:resource_id"`
	UserID             *int64     `gorm:"column:user_id"`
	CheckIn            time.Time  `gorm:"column:check_in"`
	CheckOut           time.Time  `gorm:"column:check_out"`
	Guests             int        `gorm:"column:guests"`
	Status             string     `gorm:"column:status"`
	TotalPrice         float64    `gorm:"column:total_price"`
	CreditApplied      float64    `gorm:"column:credit_applied"`
	PaymentRef         *string    `gorm:"column:payment_ref"`
	RefundAmount       float64    `gorm:"column:refund_amount"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	Notes              *string    `gorm:"column:notes"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var paymentRef, reason, notes string
	if m.PaymentRef != nil {
		paymentRef = *m.PaymentRef
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}
	if m.Notes != nil {
		notes = *m.Notes
	}

	return &domain.Booking{
		ID:                 m.ID,
		ResourceID:         m.ResourceID,
		UserID:             m.UserID,
		CheckIn:            m.CheckIn,
		CheckOut:           m.CheckOut,
		Guests:             m.Guests,
		Status:             domain.BookingStatus(m.Status),
		TotalPrice:         m.TotalPrice,
		CreditApplied:      m.CreditApplied,
		PaymentRef:         paymentRef,
		RefundAmount:       m.RefundAmount,
		CancellationReason: reason,
		CancelledAt:        m.CancelledAt,
		Notes:              notes,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var paymentRef, reason, notes *string
	if b.PaymentRef != "" {
		v := b.PaymentRef
		paymentRef = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}

	return bookingModel{
		ID:                 b.ID,
		ResourceID:         b.ResourceID,
		UserID:             b.UserID,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		Guests:             b.Guests,
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		CreditApplied:      b.CreditApplied,
		PaymentRef:         paymentRef,
		RefundAmount:       b.RefundAmount,
		CancellationReason: reason,
		CancelledAt:        b.CancelledAt,
		Notes:              notes,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// CountOverlapping counts non-cancelled bookings for the resource whose
// half-open [check_in, check_out) range intersects the candidate range.
// [a1,a2) and [b1,b2) overlap iff a1 < b2 AND a2 > b1. This pre-check is
// advisory only; the bookings_no_overlap exclusion constraint is the
// authoritative conflict signal under concurrency.
func (r *BookingRepository) CountOverlapping(ctx context.Context, resourceID int64, checkIn, checkOut time.Time, excludeBookingID int64) (int64, error) {
	var cnt int64
	q := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("resource_id = ?", resourceID).
		Where("status <> ?", string(domain.BookingCancelled)).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeBookingID > 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}
	if tx := q.Count(&cnt); tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

// BusyRange is one occupied period on a resource's calendar.
type BusyRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

func (r *BookingRepository) BusyRanges(ctx context.Context, resourceID int64, from, to time.Time) ([]BusyRange, error) {
	var rows []BusyRange
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("check_in, check_out").
		Where("resource_id = ?", resourceID).
		Where("status <> ?", string(domain.BookingCancelled)).
		Where("check_in < ? AND check_out > ?", to, from).
		Order("check_in").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
