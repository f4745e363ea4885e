package repository

import (
	"context"
	"time"

	"resortdesk/internal/domain"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

type resourceModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	Kind             string    `gorm:"column:kind"`
	Name             string    `gorm:"column:name"`
	Description      *string   `gorm:"column:description"`
	BasePrice        float64   `gorm:"column:base_price"`
	WeekendMarkupPct float64   `gorm:"column:weekend_markup_pct"`
	Capacity         int       `gorm:"column:capacity"`
	Active           bool      `gorm:"column:active"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (resourceModel) TableName() string { return "resources" }

func toDomainResource(m resourceModel) *domain.Resource {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Resource{
		ID:               m.ID,
		Kind:             domain.ResourceKind(m.Kind),
		Name:             m.Name,
		Description:      desc,
		BasePrice:        m.BasePrice,
		WeekendMarkupPct: m.WeekendMarkupPct,
		Capacity:         m.Capacity,
		Active:           m.Active,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	var desc *string
	if res.Description != "" {
		v := res.Description
		desc = &v
	}
	m := resourceModel{
		ID:               res.ID,
		Kind:             string(res.Kind),
		Name:             res.Name,
		Description:      desc,
		BasePrice:        res.BasePrice,
		WeekendMarkupPct: res.WeekendMarkupPct,
		Capacity:         res.Capacity,
		Active:           res.Active,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*res = *toDomainResource(m)
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	var m resourceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainResource(m), nil
}

func (r *ResourceRepository) List(ctx context.Context, kind string) ([]domain.Resource, error) {
	var models []resourceModel
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if tx := q.Order("name").Find(&models); tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Resource, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainResource(m))
	}
	return out, nil
}
