package repo

import (
	"context"

	"gorm.io/gorm"

	"carexchange/internal/domain"
)

type DonationRepo struct{ db *gorm.DB }

func NewDonationRepo(db *gorm.DB) *DonationRepo { return &DonationRepo{db: db} }

func (r *DonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DonationRepo) ListActive(ctx context.Context) ([]domain.Donation, error) {
	var ds []domain.Donation
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.DonationActive).
		Order("created_at DESC").
		Find(&ds).Error
	return ds, err
}

func (r *DonationRepo) ListByDonor(ctx context.Context, email string) ([]domain.Donation, error) {
	var ds []domain.Donation
	err := r.db.WithContext(ctx).
		Where("donor_email = ?", email).
		Order("created_at DESC").
		Find(&ds).Error
	return ds, err
}
