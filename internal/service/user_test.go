package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carexchange/internal/domain"
	"carexchange/pkg/utils"
)

func seedUser(t *testing.T, repo *memUserRepo, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:      utils.NewID(),
		Name:    "Alice",
		Email:   email,
		Role:    domain.RoleDonor,
		Phone:   "123456789",
		Address: "1 Main St",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUpdateProfileSkipsEmptyFields(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)
	u := seedUser(t, repo, "alice@example.com")
	ctx := context.Background()

	out, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Phone: "987654321"})
	require.NoError(t, err)
	assert.Equal(t, "987654321", out.Phone)
	assert.Equal(t, "Alice", out.Name)
	assert.Equal(t, "1 Main St", out.Address)
}

func TestUpdateProfileMissingUser(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	_, err := svc.UpdateProfile(context.Background(), "no-such-id", ProfileUpdate{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAvatar(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)
	u := seedUser(t, repo, "alice@example.com")

	out, err := svc.SetAvatar(context.Background(), u.ID, "/uploads/avatars/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/a.png", out.Avatar)
}

// 非法 limit 统一收敛到默认页大小
func TestListClampsLimit(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	for _, limit := range []int{0, -5, 1000} {
		_, _, err := svc.List(ctx, domain.ListUsersParams{Limit: limit})
		require.NoError(t, err)
		assert.Equal(t, 20, repo.lastList.Limit)
	}

	_, _, err := svc.List(ctx, domain.ListUsersParams{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastList.Limit)
}

func TestBan(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)
	u := seedUser(t, repo, "alice@example.com")
	ctx := context.Background()

	require.NoError(t, svc.Ban(ctx, u.ID))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// 仓储层的 not-found 要翻译成业务错误，不能漏成 500
	assert.ErrorIs(t, svc.Ban(ctx, "no-such-id"), ErrNotFound)
}
