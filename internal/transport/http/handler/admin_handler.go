package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carexchange/internal/domain"
	"carexchange/internal/service"
	mdw "carexchange/internal/transport/http/middleware"
	resp "carexchange/internal/transport/http/response"
)

// AdminHandler 后台端：用户列表/封禁、药品核验
type AdminHandler struct {
	users     *service.UserService
	medicines *service.MedicineService
	log       *zap.Logger
}

func NewAdminHandler(users *service.UserService, medicines *service.MedicineService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, medicines: medicines, log: log}
}

// GET /admin/v1/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`
		WithDeleted bool   `form:"with_deleted"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	users, total, err := h.users.List(c.Request.Context(), domain.ListUsersParams{
		Q: q.Q, Offset: q.Offset, Limit: q.Limit, WithDeleted: q.WithDeleted,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	type row struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		Role      string `json:"role"`
		Verified  bool   `json:"isVerified"`
		CreatedAt string `json:"createdAt"`
	}
	items := make([]row, 0, len(users))
	for _, u := range users {
		items = append(items, row{
			ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role,
			Verified: u.Verified, CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	resp.OK(c, gin.H{"total": total, "items": items})
}

// POST /admin/v1/users/:id/ban 封禁（软删）
func (h *AdminHandler) BanUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		resp.Fail(c, http.StatusBadRequest, "missing id")
		return
	}
	if err := h.users.Ban(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// PUT /admin/v1/medicines/:id/verify
func (h *AdminHandler) VerifyMedicine(c *gin.Context) {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	m, err := h.medicines.Verify(c.Request.Context(), c.Param("id"), c.GetString(mdw.KeyUserID), in.Status)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"id": m.ID, "verificationStatus": m.VerificationStatus})
}
