package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carexchange/internal/domain"
)

type MedicineRepo struct{ db *gorm.DB }

func NewMedicineRepo(db *gorm.DB) *MedicineRepo { return &MedicineRepo{db: db} }

func (r *MedicineRepo) Create(ctx context.Context, m *domain.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MedicineRepo) FindByID(ctx context.Context, id string) (*domain.Medicine, error) {
	var m domain.Medicine
	err := r.db.WithContext(ctx).
		Preload("Ratings").
		Preload("Donor").
		First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

// ListAvailable 只看 available 且未过期；过期但状态没来得及翻转的记录靠 expiry_date 条件挡住
func (r *MedicineRepo) ListAvailable(ctx context.Context, now time.Time) ([]domain.Medicine, error) {
	var ms []domain.Medicine
	err := r.db.WithContext(ctx).
		Where("status = ? AND expiry_date > ?", domain.MedicineAvailable, now).
		Order("created_at DESC").
		Preload("Ratings").
		Preload("Donor").
		Find(&ms).Error
	return ms, err
}

func (r *MedicineRepo) ListByUser(ctx context.Context, userID string) ([]domain.Medicine, error) {
	var ms []domain.Medicine
	err := r.db.WithContext(ctx).
		Where("donor_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Preload("Ratings").
		Preload("Donor").
		Find(&ms).Error
	return ms, err
}

func (r *MedicineRepo) Update(ctx context.Context, m *domain.Medicine) error {
	return r.db.WithContext(ctx).Omit("Ratings", "Donor").Save(m).Error
}

// SaveRating 评分 upsert + 平均分/状态回写走同一事务，保证聚合值和评分集一致
func (r *MedicineRepo) SaveRating(ctx context.Context, m *domain.Medicine, rt *domain.Rating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "medicine_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(rt).Error
		if err != nil {
			return err
		}
		return tx.Model(&domain.Medicine{}).
			Where("id = ?", m.ID).
			Updates(map[string]any{
				"average_rating": m.AverageRating,
				"status":         m.Status,
			}).Error
	})
}
