package service

import (
	"context"
	"math"
	"time"

	"carexchange/internal/core/cache"
	"carexchange/internal/domain"
	"carexchange/pkg/utils"
)

const (
	medicineListKey = "medicines:available"
	medicineListTTL = 30 * time.Second
)

type MedicineService struct {
	medicines domain.MedicineRepository
	cache     *cache.Cache // 可为 nil（管理端、测试）
}

func NewMedicineService(medicines domain.MedicineRepository, c *cache.Cache) *MedicineService {
	return &MedicineService{medicines: medicines, cache: c}
}

// ListAvailable 公开列表。查询侧已过滤过期；这里再兜底一次，
// 过期但状态字段还没翻转的记录绝不能漏出去
func (s *MedicineService) ListAvailable(ctx context.Context) ([]domain.Medicine, error) {
	now := time.Now()
	load := func(ctx context.Context) (*[]domain.Medicine, error) {
		ms, err := s.medicines.ListAvailable(ctx, now)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Medicine, 0, len(ms))
		for _, m := range ms {
			if m.Expired(now) {
				continue
			}
			out = append(out, m)
		}
		return &out, nil
	}

	if s.cache == nil {
		ms, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return *ms, nil
	}
	ms, err := cache.GetOrLoadJSON(s.cache, ctx, medicineListKey, medicineListTTL, load)
	if err != nil {
		return nil, err
	}
	if ms == nil {
		return nil, nil
	}
	return *ms, nil
}

func (s *MedicineService) Get(ctx context.Context, id string) (*domain.Medicine, error) {
	m, err := s.medicines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *MedicineService) ListByUser(ctx context.Context, uid string) ([]domain.Medicine, error) {
	return s.medicines.ListByUser(ctx, uid)
}

type CreateMedicineInput struct {
	Name                 string    `json:"name"`
	Category             string    `json:"category"`
	Description          string    `json:"description"`
	Quantity             int       `json:"quantity"`
	ExpiryDate           time.Time `json:"expiryDate"`
	Condition            string    `json:"condition"`
	OriginalPrice        *float64  `json:"originalPrice"`
	IsFree               bool      `json:"isFree"`
	Images               []string  `json:"images"`
	Location             string    `json:"location"`
	PrescriptionRequired bool      `json:"prescriptionRequired"`
	PrescriptionImage    string    `json:"prescriptionImage"`
	Packaging            string    `json:"packaging"`
	StorageInstructions  string    `json:"storageInstructions"`
	DosageForm           string    `json:"dosageForm"`
	Strength             string    `json:"strength"`
	Manufacturer         string    `json:"manufacturer"`
	BatchNumber          string    `json:"batchNumber"`
	Notes                string    `json:"notes"`
}

func (s *MedicineService) Create(ctx context.Context, in CreateMedicineInput, donorID string) (*domain.Medicine, error) {
	switch {
	case in.Name == "":
		return nil, invalid("medicine name is required")
	case !domain.ValidCategory(in.Category):
		return nil, invalid("invalid category")
	case in.Description == "":
		return nil, invalid("description is required")
	case in.Quantity < 1:
		return nil, invalid("quantity must be at least 1")
	case !in.ExpiryDate.After(time.Now()):
		return nil, invalid("expiry date must be in the future")
	case !domain.ValidCondition(in.Condition):
		return nil, invalid("invalid condition")
	case in.Location == "":
		return nil, invalid("location is required")
	case !domain.ValidPackaging(in.Packaging):
		return nil, invalid("packaging information is required")
	case !domain.ValidDosageForm(in.DosageForm):
		return nil, invalid("invalid dosage form")
	case in.Strength == "":
		return nil, invalid("medicine strength is required")
	case in.Manufacturer == "":
		return nil, invalid("manufacturer name is required")
	}
	if in.OriginalPrice != nil && *in.OriginalPrice < 0 {
		return nil, invalid("price cannot be negative")
	}

	m := &domain.Medicine{
		ID:                   utils.NewID(),
		Name:                 in.Name,
		Category:             in.Category,
		Description:          in.Description,
		Quantity:             in.Quantity,
		ExpiryDate:           in.ExpiryDate,
		Condition:            in.Condition,
		OriginalPrice:        in.OriginalPrice,
		IsFree:               in.IsFree,
		Images:               in.Images,
		Location:             in.Location,
		Status:               domain.MedicineAvailable,
		DonorID:              donorID,
		PrescriptionRequired: in.PrescriptionRequired,
		PrescriptionImage:    in.PrescriptionImage,
		Packaging:            in.Packaging,
		StorageInstructions:  in.StorageInstructions,
		DosageForm:           in.DosageForm,
		Strength:             in.Strength,
		Manufacturer:         in.Manufacturer,
		BatchNumber:          in.BatchNumber,
		Notes:                in.Notes,
		VerificationStatus:   domain.VerificationPending,
	}
	if err := s.medicines.Create(ctx, m); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return m, nil
}

// Rate 评分聚合：同一用户后写覆盖，平均分取全量算术平均保留一位小数。
// 评分行与聚合值由仓储层在同一事务内落盘
func (s *MedicineService) Rate(ctx context.Context, medicineID, userID string, value int) (float64, error) {
	if value < 1 || value > 5 {
		return 0, ErrInvalidRating
	}

	m, err := s.medicines.FindByID(ctx, medicineID)
	if err != nil {
		return 0, err
	}
	if m == nil {
		return 0, ErrNotFound
	}

	now := time.Now()
	var row *domain.Rating
	for i := range m.Ratings {
		if m.Ratings[i].UserID == userID {
			m.Ratings[i].Value = value
			m.Ratings[i].UpdatedAt = now
			row = &m.Ratings[i]
			break
		}
	}
	if row == nil {
		m.Ratings = append(m.Ratings, domain.Rating{
			ID:         utils.NewID(),
			MedicineID: m.ID,
			UserID:     userID,
			Value:      value,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		row = &m.Ratings[len(m.Ratings)-1]
	}

	sum := 0
	for _, r := range m.Ratings {
		sum += r.Value
	}
	m.AverageRating = math.Round(float64(sum)/float64(len(m.Ratings))*10) / 10
	m.RefreshStatus(now)

	if err := s.medicines.SaveRating(ctx, m, row); err != nil {
		return 0, err
	}
	s.invalidateList(ctx)
	return m.AverageRating, nil
}

// Verify 管理端核验
func (s *MedicineService) Verify(ctx context.Context, medicineID, adminID, status string) (*domain.Medicine, error) {
	if status != domain.VerificationVerified && status != domain.VerificationRejected {
		return nil, invalid("status must be verified or rejected")
	}
	m, err := s.Get(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	m.VerificationStatus = status
	m.VerifiedBy = &adminID
	m.RefreshStatus(time.Now())
	if err := s.medicines.Update(ctx, m); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return m, nil
}

func (s *MedicineService) invalidateList(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, medicineListKey)
	}
}
