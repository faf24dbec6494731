package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carexchange/internal/core/auth"
	"carexchange/internal/domain"
	"carexchange/internal/service"
	"carexchange/internal/transport/http/handler"
	"carexchange/internal/transport/http/router"
	"carexchange/pkg/utils"
)

// 走真实路由，仓储换内存版。查不到返回 (nil, nil)，软删 0 行返回
// gorm.ErrRecordNotFound，和真实现一致

type memUsers struct{ m map[string]*domain.User }

func (r *memUsers) Create(_ context.Context, u *domain.User) error {
	cp := *u
	r.m[u.ID] = &cp
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.m {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByResetToken(_ context.Context, digest string, now time.Time) (*domain.User, error) {
	for _, u := range r.m {
		if u.ResetPasswordToken == digest && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByVerificationToken(_ context.Context, digest string) (*domain.User, error) {
	for _, u := range r.m {
		if digest != "" && u.VerificationToken == digest {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) Update(_ context.Context, u *domain.User) error {
	cp := *u
	r.m[u.ID] = &cp
	return nil
}

func (r *memUsers) List(_ context.Context, _ domain.ListUsersParams) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.m {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUsers) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.m[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m, id)
	return nil
}

type memMedicines struct{ m map[string]*domain.Medicine }

func (r *memMedicines) Create(_ context.Context, m *domain.Medicine) error {
	cp := *m
	r.m[m.ID] = &cp
	return nil
}

func (r *memMedicines) FindByID(_ context.Context, id string) (*domain.Medicine, error) {
	m, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	cp.Ratings = append([]domain.Rating(nil), m.Ratings...)
	return &cp, nil
}

func (r *memMedicines) ListAvailable(_ context.Context, now time.Time) ([]domain.Medicine, error) {
	var out []domain.Medicine
	for _, m := range r.m {
		if m.Status == domain.MedicineAvailable && m.ExpiryDate.After(now) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMedicines) ListByUser(_ context.Context, userID string) ([]domain.Medicine, error) {
	var out []domain.Medicine
	for _, m := range r.m {
		if m.DonorID == userID || (m.RecipientID != nil && *m.RecipientID == userID) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMedicines) Update(_ context.Context, m *domain.Medicine) error { return r.Create(nil, m) }

func (r *memMedicines) SaveRating(_ context.Context, m *domain.Medicine, _ *domain.Rating) error {
	cp := *m
	cp.Ratings = append([]domain.Rating(nil), m.Ratings...)
	r.m[m.ID] = &cp
	return nil
}

type memDonations struct{ m []*domain.Donation }

func (r *memDonations) Create(_ context.Context, d *domain.Donation) error {
	cp := *d
	r.m = append(r.m, &cp)
	return nil
}

func (r *memDonations) ListActive(_ context.Context) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, d := range r.m {
		if d.Status == domain.DonationActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDonations) ListByDonor(_ context.Context, email string) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, d := range r.m {
		if d.DonorEmail == email {
			out = append(out, *d)
		}
	}
	return out, nil
}

type memRequests struct{ m []*domain.Request }

func (r *memRequests) Create(_ context.Context, req *domain.Request) error {
	cp := *req
	r.m = append(r.m, &cp)
	return nil
}

func (r *memRequests) ListByRecipient(_ context.Context, email string) ([]domain.Request, error) {
	var out []domain.Request
	for _, req := range r.m {
		if req.RecipientEmail == email {
			out = append(out, *req)
		}
	}
	return out, nil
}

type testEnv struct {
	r         *gin.Engine
	admin     *gin.Engine
	jwter     *auth.JWTer
	users     *memUsers
	medicines *memMedicines
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUsers{m: map[string]*domain.User{}}
	medicines := &memMedicines{m: map[string]*domain.Medicine{}}
	donations := &memDonations{}
	requests := &memRequests{}

	log := zap.NewNop()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "carexchange", TTL: time.Hour}
	hasher := auth.BcryptHasher{Cost: 4}

	authSvc := service.NewAuthService(users, hasher, nil, "http://test.local")
	userSvc := service.NewUserService(users)
	medSvc := service.NewMedicineService(medicines, nil)
	donSvc := service.NewDonationService(donations)
	reqSvc := service.NewRequestService(requests)

	r := router.NewAPIEngine(router.APIDeps{
		Log:       log,
		JWTer:     jwter,
		Users:     users,
		Auth:      handler.NewAuthHandler(authSvc, jwter, 3600, false, log),
		Medicines: handler.NewMedicineHandler(medSvc, log),
		Donations: handler.NewDonationHandler(donSvc, log),
		Requests:  handler.NewRequestHandler(reqSvc, log),
		Profile:   handler.NewUserHandler(userSvc, t.TempDir(), 1, log),
		Secure:    false,
		UploadDir: t.TempDir(),
	})
	admin := router.NewAdminEngine(router.AdminDeps{
		Log:    log,
		JWTer:  jwter,
		Users:  users,
		Admin:  handler.NewAdminHandler(userSvc, medSvc, log),
		Secure: false,
	})
	return &testEnv{r: r, admin: admin, jwter: jwter, users: users, medicines: medicines}
}

func serve(r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	return serve(e.r, method, path, body, cookie)
}

func (e *testEnv) doAdmin(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	return serve(e.admin, method, path, body, cookie)
}

// sessionCookie 校验 Cookie 属性后返回：HttpOnly + SameSite=Strict + 全站 Path
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	for _, c := range res.Cookies() {
		if c.Name == "token" && c.Value != "" {
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
			assert.Equal(t, "/", c.Path)
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func (e *testEnv) signup(t *testing.T, email, role string) *http.Cookie {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/signup", map[string]any{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
		"role":     role,
		"phone":    "123456789",
		"address":  "1 Main St",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

// adminCookie 管理员不走自助注册，直接种到用户库再签会话
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	admin := &domain.User{
		ID:       utils.NewID(),
		Name:     "Admin",
		Email:    "admin@example.com",
		Role:     domain.RoleAdmin,
		Verified: true,
	}
	require.NoError(t, e.users.Create(context.Background(), admin))
	tok, err := e.jwter.Issue(admin.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: tok}
}
