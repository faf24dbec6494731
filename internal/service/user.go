package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"carexchange/internal/domain"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Get(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

type ProfileUpdate struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateProfile 只放行 name/phone/address，空字段不动
func (s *UserService) UpdateProfile(ctx context.Context, uid string, p ProfileUpdate) (*domain.User, error) {
	u, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(p.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(p.Phone); v != "" {
		u.Phone = v
	}
	if v := strings.TrimSpace(p.Address); v != "" {
		u.Address = v
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) SetAvatar(ctx context.Context, uid, url string) (*domain.User, error) {
	u, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	u.Avatar = url
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List / Ban 管理端
func (s *UserService) List(ctx context.Context, p domain.ListUsersParams) ([]domain.User, int64, error) {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	return s.users.List(ctx, p)
}

func (s *UserService) Ban(ctx context.Context, uid string) error {
	err := s.users.SoftDelete(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
