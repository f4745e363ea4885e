package repository

import (
	"context"
	"time"

	"resortdesk/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	BookingID   int64     `gorm:"column:booking_id"`
	Reference   string    `gorm:"column:reference"`
	Amount      float64   `gorm:"column:amount"`
	Status      string    `gorm:"column:status"`
	CheckoutURL *string   `gorm:"column:checkout_url"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

type refundModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	PaymentID int64     `gorm:"column:payment_id"`
	Reference string    `gorm:"column:reference"`
	Amount    float64   `gorm:"column:amount"`
	Reason    *string   `gorm:"column:reason"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (refundModel) TableName() string { return "payment_refunds" }

func toDomainPayment(m paymentModel) *domain.Payment {
	var checkout string
	if m.CheckoutURL != nil {
		checkout = *m.CheckoutURL
	}
	return &domain.Payment{
		ID:          m.ID,
		BookingID:   m.BookingID,
		Reference:   m.Reference,
		Amount:      m.Amount,
		Status:      domain.PaymentStatus(m.Status),
		CheckoutURL: checkout,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	var checkout *string
	if p.CheckoutURL != "" {
		v := p.CheckoutURL
		checkout = &v
	}
	m := paymentModel{
		BookingID:   p.BookingID,
		Reference:   p.Reference,
		Amount:      p.Amount,
		Status:      string(p.Status),
		CheckoutURL: checkout,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).Where("reference = ?", reference).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *PaymentRepository) CreateRefund(ctx context.Context, rf *domain.PaymentRefund) error {
	var reason *string
	if rf.Reason != "" {
		v := rf.Reason
		reason = &v
	}
	m := refundModel{
		PaymentID: rf.PaymentID,
		Reference: rf.Reference,
		Amount:    rf.Amount,
		Reason:    reason,
		Status:    string(rf.Status),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	rf.ID = m.ID
	rf.CreatedAt = m.CreatedAt
	return nil
}
