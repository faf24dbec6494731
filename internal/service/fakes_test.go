package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"carexchange/internal/domain"
)

// 内存版仓储，按真实现的约定：查不到返回 (nil, nil)

type memUserRepo struct {
	users    map[string]*domain.User
	lastList domain.ListUsersParams
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, x := range r.users {
		if x.Email == u.Email {
			return errors.New("duplicate key")
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByResetToken(_ context.Context, digest string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken == digest && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByVerificationToken(_ context.Context, digest string) (*domain.User, error) {
	if digest == "" {
		return nil, nil
	}
	for _, u := range r.users {
		if u.VerificationToken == digest {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(_ context.Context, p domain.ListUsersParams) ([]domain.User, int64, error) {
	r.lastList = p
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

type memMailer struct {
	sent []struct{ To, Subject, Body string }
	fail bool
}

func (m *memMailer) Send(to, subject, htmlBody string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, struct{ To, Subject, Body string }{to, subject, htmlBody})
	return nil
}

type memMedicineRepo struct {
	meds map[string]*domain.Medicine
}

func newMemMedicineRepo() *memMedicineRepo {
	return &memMedicineRepo{meds: map[string]*domain.Medicine{}}
}

func (r *memMedicineRepo) Create(_ context.Context, m *domain.Medicine) error {
	cp := *m
	r.meds[m.ID] = &cp
	return nil
}

func (r *memMedicineRepo) FindByID(_ context.Context, id string) (*domain.Medicine, error) {
	m, ok := r.meds[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	cp.Ratings = append([]domain.Rating(nil), m.Ratings...)
	return &cp, nil
}

// 故意只按状态过滤，过期兜底交给调用方验证
func (r *memMedicineRepo) ListAvailable(_ context.Context, _ time.Time) ([]domain.Medicine, error) {
	var out []domain.Medicine
	for _, m := range r.meds {
		if m.Status == domain.MedicineAvailable {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMedicineRepo) ListByUser(_ context.Context, userID string) ([]domain.Medicine, error) {
	var out []domain.Medicine
	for _, m := range r.meds {
		if m.DonorID == userID || (m.RecipientID != nil && *m.RecipientID == userID) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMedicineRepo) Update(_ context.Context, m *domain.Medicine) error {
	cp := *m
	cp.Ratings = append([]domain.Rating(nil), m.Ratings...)
	r.meds[m.ID] = &cp
	return nil
}

func (r *memMedicineRepo) SaveRating(_ context.Context, m *domain.Medicine, _ *domain.Rating) error {
	return r.Update(nil, m)
}
