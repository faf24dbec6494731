package domain

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"
)

// 药品状态
const (
	MedicineAvailable = "available"
	MedicineReserved  = "reserved"
	MedicineDonated   = "donated"
	MedicineExpired   = "expired"
)

// 核验状态
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

var MedicineCategories = []string{
	"Pain Relief", "Antibiotics", "Cardiovascular", "Diabetes", "Respiratory",
	"Gastrointestinal", "Mental Health", "Vitamins & Supplements", "First Aid", "Other",
}

var DosageForms = []string{
	"tablet", "capsule", "liquid", "injection", "cream",
	"ointment", "drops", "inhaler", "powder", "other",
}

func ValidCategory(c string) bool { return contains(MedicineCategories, c) }

func ValidDosageForm(d string) bool { return contains(DosageForms, d) }
func ValidCondition(c string) bool {
	return c == "new" || c == "like-new" || c == "good"
}
func ValidPackaging(p string) bool {
	return p == "sealed" || p == "opened" || p == "partial"
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// Rating 同一 (medicine, user) 至多一条，后写覆盖
type Rating struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	MedicineID string    `gorm:"size:36;not null;uniqueIndex:uq_medicine_user" json:"-"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:uq_medicine_user" json:"userId"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Rating) TableName() string { return "medicine_ratings" }

// DonorRef 药品对外展示用的捐赠方投影，只取基础三列
type DonorRef struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (DonorRef) TableName() string { return "users" }

type Medicine struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null;index" json:"name"`
	Category    string    `gorm:"size:64;not null;index:idx_category_status" json:"category"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	ExpiryDate  time.Time `gorm:"not null;index" json:"expiryDate"`
	Condition   string    `gorm:"size:16;not null;default:new" json:"condition"`

	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	IsFree        bool     `gorm:"not null;default:false" json:"isFree"`

	Images   []string `gorm:"serializer:json" json:"images"`
	Location string   `gorm:"size:255;not null;index" json:"location"`
	Status   string   `gorm:"size:16;not null;default:available;index:idx_category_status" json:"status"`

	DonorID     string    `gorm:"size:36;not null;index" json:"-"`
	Donor       *DonorRef `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	RecipientID *string   `gorm:"size:36;index" json:"recipient,omitempty"`

	PrescriptionRequired bool   `gorm:"not null;default:false" json:"prescriptionRequired"`
	PrescriptionImage    string `gorm:"size:255" json:"prescriptionImage,omitempty"`
	Packaging            string `gorm:"size:16;not null" json:"packaging"`
	StorageInstructions  string `gorm:"size:255" json:"storageInstructions,omitempty"`
	DosageForm           string `gorm:"size:32;not null" json:"dosageForm"`
	Strength             string `gorm:"size:64;not null" json:"strength"`
	Manufacturer         string `gorm:"size:128;not null" json:"manufacturer"`
	BatchNumber          string `gorm:"size:64" json:"batchNumber,omitempty"`

	VerificationStatus string  `gorm:"size:16;not null;default:pending" json:"verificationStatus"`
	VerifiedBy         *string `gorm:"size:36" json:"verifiedBy,omitempty"`
	Notes              string  `gorm:"type:text" json:"notes,omitempty"`

	Ratings       []Rating `gorm:"foreignKey:MedicineID" json:"ratings"`
	AverageRating float64  `gorm:"not null;default:0" json:"averageRating"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Medicine) TableName() string { return "medicines" }

func (m *Medicine) Expired(now time.Time) bool { return !m.ExpiryDate.After(now) }

// RefreshStatus 写路径上把过期药品打成 expired（无后台扫描，读侧另有兜底过滤）
func (m *Medicine) RefreshStatus(now time.Time) {
	if m.Expired(now) {
		m.Status = MedicineExpired
	}
}

// TrustScore 全部评分的算术平均，保留一位小数；无评分为 0
func (m *Medicine) TrustScore() float64 {
	if len(m.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range m.Ratings {
		sum += r.Value
	}
	return math.Round(float64(sum)/float64(len(m.Ratings))*10) / 10
}

type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	FindByID(ctx context.Context, id string) (*Medicine, error)
	ListAvailable(ctx context.Context, now time.Time) ([]Medicine, error)
	ListByUser(ctx context.Context, userID string) ([]Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	// SaveRating 单事务落盘：评分行 upsert + 平均分/状态回写
	SaveRating(ctx context.Context, m *Medicine, r *Rating) error
}
