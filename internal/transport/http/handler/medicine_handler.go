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

type MedicineHandler struct {
	svc *service.MedicineService
	log *zap.Logger
}

func NewMedicineHandler(svc *service.MedicineService, log *zap.Logger) *MedicineHandler {
	return &MedicineHandler{svc: svc, log: log}
}

// GET /api/medicines 可领取且未过期
func (h *MedicineHandler) List(c *gin.Context) {
	ms, err := h.svc.ListAvailable(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if ms == nil {
		ms = []domain.Medicine{}
	}
	resp.OK(c, ms)
}

type medicineOut struct {
	*domain.Medicine
	TrustScore float64 `json:"trustScore"`
}

// GET /api/medicines/:id
func (h *MedicineHandler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, medicineOut{Medicine: m, TrustScore: m.TrustScore()})
}

// GET /api/medicines/user 我捐的 / 给我的
func (h *MedicineHandler) ListMine(c *gin.Context) {
	ms, err := h.svc.ListByUser(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if ms == nil {
		ms = []domain.Medicine{}
	}
	resp.OK(c, ms)
}

// POST /api/medicines 捐赠方上新
func (h *MedicineHandler) Create(c *gin.Context) {
	var in service.CreateMedicineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	m, err := h.svc.Create(c.Request.Context(), in, c.GetString(mdw.KeyUserID))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Created(c, gin.H{"message": "Medicine created successfully", "medicine": m})
}

// POST /api/medicines/:id/rate
func (h *MedicineHandler) Rate(c *gin.Context) {
	var in struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	avg, err := h.svc.Rate(c.Request.Context(), c.Param("id"), c.GetString(mdw.KeyUserID), in.Rating)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"message": "Rating updated successfully", "averageRating": avg})
}
