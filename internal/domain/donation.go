package domain

import (
	"context"
	"time"
)

// 捐赠状态
const (
	DonationActive    = "active"
	DonationPending   = "pending"
	DonationCompleted = "completed"
	DonationCancelled = "cancelled"
)

func ValidDonationStatus(s string) bool {
	return s == DonationActive || s == DonationPending ||
		s == DonationCompleted || s == DonationCancelled
}

type Donation struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Medicine    string    `gorm:"size:128;not null" json:"medicine"`
	DonorEmail  string    `gorm:"size:191;not null;index" json:"donorEmail"`
	RecipientID *string   `gorm:"size:36" json:"recipient,omitempty"`
	Status      string    `gorm:"size:16;not null;default:active;index" json:"status"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	ExpiryDate  time.Time `gorm:"not null" json:"expiryDate"`
	Condition   string    `gorm:"size:16;not null" json:"condition"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	Images      []string  `gorm:"serializer:json" json:"images"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Donation) TableName() string { return "donations" }

type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error
	ListActive(ctx context.Context) ([]Donation, error)
	ListByDonor(ctx context.Context, email string) ([]Donation, error)
}
