package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// 角色
const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
	RoleAdmin     = "admin"
)

func ValidRole(r string) bool {
	return r == RoleDonor || r == RoleRecipient || r == RoleAdmin
}

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:recipient;index" json:"role"`
	Phone        string `gorm:"size:32" json:"phone,omitempty"`
	Address      string `gorm:"size:255" json:"address,omitempty"`
	Avatar       string `gorm:"size:255" json:"avatar,omitempty"`

	Verified          bool   `gorm:"not null;default:false" json:"isVerified"`
	VerificationToken string `gorm:"size:64;index" json:"-"` // sha256 摘要，不存原文

	ResetPasswordToken  string     `gorm:"size:64;index" json:"-"` // sha256 摘要
	ResetPasswordExpire *time.Time `json:"-"`

	LastLogin *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// ListUsersParams 管理端用户列表筛选
type ListUsersParams struct {
	Q           string
	Offset      int
	Limit       int
	WithDeleted bool
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*User, error)
	FindByVerificationToken(ctx context.Context, digest string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, p ListUsersParams) ([]User, int64, error)
	SoftDelete(ctx context.Context, id string) error
}
