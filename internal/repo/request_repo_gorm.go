package repo

import (
	"context"

	"gorm.io/gorm"

	"carexchange/internal/domain"
)

type RequestRepo struct{ db *gorm.DB }

func NewRequestRepo(db *gorm.DB) *RequestRepo { return &RequestRepo{db: db} }

func (r *RequestRepo) Create(ctx context.Context, req *domain.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepo) ListByRecipient(ctx context.Context, email string) ([]domain.Request, error) {
	var rs []domain.Request
	err := r.db.WithContext(ctx).
		Where("recipient_email = ?", email).
		Order("created_at DESC").
		Find(&rs).Error
	return rs, err
}
