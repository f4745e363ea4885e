package repository

import (
	"context"
	"time"

	"resortdesk/internal/domain"

	"gorm.io/gorm"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

type creditModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	UserID          int64     `gorm:"column:user_id"`
	Amount          float64   `gorm:"column:amount"`
	Remaining       float64   `gorm:"column:remaining"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
	SourceBookingID *int64    `gorm:"column:source_booking_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (creditModel) TableName() string { return "user_credits" }

func toDomainCredit(m creditModel) *domain.UserCredit {
	return &domain.UserCredit{
		ID:              m.ID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		Remaining:       m.Remaining,
		ExpiresAt:       m.ExpiresAt,
		SourceBookingID: m.SourceBookingID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (r *CreditRepository) Create(ctx context.Context, c *domain.UserCredit) error {
	m := creditModel{
		UserID:          c.UserID,
		Amount:          c.Amount,
		Remaining:       c.Remaining,
		ExpiresAt:       c.ExpiresAt,
		SourceBookingID: c.SourceBookingID,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainCredit(m)
	return nil
}

// ListUsable returns credits with balance left, unexpired at the given
// instant, oldest expiry first. Redemption order depends on this ordering.
func (r *CreditRepository) ListUsable(ctx context.Context, userID int64, now time.Time) ([]domain.UserCredit, error) {
	var models []creditModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("remaining > 0").
		Where("expires_at > ?", now).
		Order("expires_at").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.UserCredit, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainCredit(m))
	}
	return out, nil
}

func (r *CreditRepository) UpdateRemaining(ctx context.Context, id int64, remaining float64) error {
	return r.db.WithContext(ctx).
		Model(&creditModel{}).
		Where("id = ?", id).
		Update("remaining", remaining).Error
}

// ZeroExpired clears the balance of credits past their expiry. Returns the
// number of rows touched.
func (r *CreditRepository) ZeroExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&creditModel{}).
		Where("remaining > 0").
		Where("expires_at <= ?", now).
		Update("remaining", 0)
	return tx.RowsAffected, tx.Error
}
