package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carexchange/internal/domain"
	"carexchange/pkg/utils"
)

func seedMedicine(t *testing.T, repo *memMedicineRepo, expiry time.Time) *domain.Medicine {
	t.Helper()
	m := &domain.Medicine{
		ID:                 utils.NewID(),
		Name:               "Paracetamol",
		Category:           "Pain Relief",
		Description:        "500mg tablets",
		Quantity:           2,
		ExpiryDate:         expiry,
		Condition:          "new",
		Location:           "Berlin",
		Status:             domain.MedicineAvailable,
		DonorID:            "donor-1",
		Packaging:          "sealed",
		DosageForm:         "tablet",
		Strength:           "500mg",
		Manufacturer:       "Acme Pharma",
		VerificationStatus: domain.VerificationPending,
	}
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func validCreateInput() CreateMedicineInput {
	return CreateMedicineInput{
		Name:         "Ibuprofen",
		Category:     "Pain Relief",
		Description:  "400mg tablets",
		Quantity:     1,
		ExpiryDate:   time.Now().Add(90 * 24 * time.Hour),
		Condition:    "new",
		Location:     "Hamburg",
		Packaging:    "sealed",
		DosageForm:   "tablet",
		Strength:     "400mg",
		Manufacturer: "Acme Pharma",
	}
}

func TestCreateMedicine(t *testing.T) {
	repo := newMemMedicineRepo()
	svc := NewMedicineService(repo, nil)

	m, err := svc.Create(context.Background(), validCreateInput(), "donor-1")
	require.NoError(t, err)
	assert.Equal(t, domain.MedicineAvailable, m.Status)
	assert.Equal(t, domain.VerificationPending, m.VerificationStatus)
	assert.Equal(t, "donor-1", m.DonorID)
}

func TestCreateMedicineValidation(t *testing.T) {
	svc := NewMedicineService(newMemMedicineRepo(), nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateMedicineInput)
	}{
		{"missing name", func(in *CreateMedicineInput) { in.Name = "" }},
		{"bad category", func(in *CreateMedicineInput) { in.Category = "Snake Oil" }},
		{"zero quantity", func(in *CreateMedicineInput) { in.Quantity = 0 }},
		{"past expiry", func(in *CreateMedicineInput) { in.ExpiryDate = time.Now().Add(-time.Hour) }},
		{"bad condition", func(in *CreateMedicineInput) { in.Condition = "used" }},
		{"bad packaging", func(in *CreateMedicineInput) { in.Packaging = "loose" }},
		{"bad dosage form", func(in *CreateMedicineInput) { in.DosageForm = "gas" }},
		{"negative price", func(in *CreateMedicineInput) { p := -1.0; in.OriginalPrice = &p }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, in, "donor-1")
			var ve ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestRateBounds(t *testing.T) {
	repo := newMemMedicineRepo()
	svc := NewMedicineService(repo, nil)
	m := seedMedicine(t, repo, time.Now().Add(time.Hour))
	ctx := context.Background()

	for _, v := range []int{0, 6, -1} {
		_, err := svc.Rate(ctx, m.ID, "user-1", v)
		assert.ErrorIs(t, err, ErrInvalidRating)
	}

	_, err := svc.Rate(ctx, "no-such-id", "user-1", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRateAverage(t *testing.T) {
	repo := newMemMedicineRepo()
	svc := NewMedicineService(repo, nil)
	m := seedMedicine(t, repo, time.Now().Add(time.Hour))
	ctx := context.Background()

	avg, err := svc.Rate(ctx, m.ID, "u1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)

	avg, err = svc.Rate(ctx, m.ID, "u2", 5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, avg)

	avg, err = svc.Rate(ctx, m.ID, "u3", 3)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
}

// 同一用户重复评分是覆盖，不是追加
func TestRateOverwrite(t *testing.T) {
	repo := newMemMedicineRepo()
	svc := NewMedicineService(repo, nil)
	m := seedMedicine(t, repo, time.Now().Add(time.Hour))
	ctx := context.Background()

	_, err := svc.Rate(ctx, m.ID, "u1", 3)
	require.NoError(t, err)
	avg, err := svc.Rate(ctx, m.ID, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)

	stored, _ := repo.FindByID(ctx, m.ID)
	require.Len(t, stored.Ratings, 1)
	assert.Equal(t, 5, stored.Ratings[0].Value)
}

func TestRateRounding(t *testing.T) {
	repo := newMemMedicineRepo()
	svc := NewMedicineService(repo, nil)
	m := seedMedicine(t, repo, time.Now().Add(time.Hour))
	ctx := context.Background()

	// (4+4+5)/3 = 4.333... -> 4.3
	_, _ = svc.Rate(ctx, m.ID, "u1", 4)
	_, _ = svc.Rate(ctx, m.ID, "u2", 4)
	avg, err := svc.Rate(ctx, m.ID, "u3", 5)
	require.NoError(t, err)
	assert.Equal(t, 4.3, avg)
}

// 状态字段还没翻转的过期记录也不能出现在公开列表里
func TestListAvailableFiltersExpired(t *testing.T) {
	repo := newMemMedicineRepo()
	svc := NewMedicineService(repo, nil)
	ctx := context.Background()

	fresh := seedMedicine(t, repo, time.Now().Add(24*time.Hour))
	seedMedicine(t, repo, time.Now().Add(-time.Minute))

	ms, err := svc.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, fresh.ID, ms[0].ID)
}

func TestVerify(t *testing.T) {
	repo := newMemMedicineRepo()
	svc := NewMedicineService(repo, nil)
	m := seedMedicine(t, repo, time.Now().Add(time.Hour))
	ctx := context.Background()

	_, err := svc.Verify(ctx, m.ID, "admin-1", "maybe")
	var ve ValidationError
	assert.ErrorAs(t, err, &ve)

	out, err := svc.Verify(ctx, m.ID, "admin-1", domain.VerificationVerified)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, out.VerificationStatus)
	require.NotNil(t, out.VerifiedBy)
	assert.Equal(t, "admin-1", *out.VerifiedBy)
}

func TestTrustScore(t *testing.T) {
	m := &domain.Medicine{}
	assert.Equal(t, 0.0, m.TrustScore())

	m.Ratings = []domain.Rating{{Value: 4}, {Value: 5}, {Value: 3}}
	assert.Equal(t, 4.0, m.TrustScore())

	m.Ratings = []domain.Rating{{Value: 4}, {Value: 5}}
	assert.Equal(t, 4.5, m.TrustScore())
}
