package domain

import (
	"context"
	"time"
)

// 求药状态
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestCompleted = "completed"
	RequestCancelled = "cancelled"
)

// 紧急程度
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

func ValidUrgency(u string) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

type Request struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Medicine       string    `gorm:"size:128;not null" json:"medicine"`
	RecipientEmail string    `gorm:"size:191;not null;index" json:"recipientEmail"`
	DonorID        *string   `gorm:"size:36" json:"donor,omitempty"`
	Status         string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Urgency        string    `gorm:"size:8;not null;default:medium" json:"urgency"`
	Prescription   string    `gorm:"size:255;not null" json:"prescription"`
	Description    string    `gorm:"size:500" json:"description,omitempty"`
	Location       string    `gorm:"size:255;not null" json:"location"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Request) TableName() string { return "requests" }

type RequestRepository interface {
	Create(ctx context.Context, r *Request) error
	ListByRecipient(ctx context.Context, email string) ([]Request, error)
}
