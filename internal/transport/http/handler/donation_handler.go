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

type DonationHandler struct {
	svc *service.DonationService
	log *zap.Logger
}

func NewDonationHandler(svc *service.DonationService, log *zap.Logger) *DonationHandler {
	return &DonationHandler{svc: svc, log: log}
}

// POST /api/donations
func (h *DonationHandler) Create(c *gin.Context) {
	var in service.CreateDonationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	d, err := h.svc.Create(c.Request.Context(), in, c.GetString(mdw.KeyUserEmail))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Created(c, gin.H{"message": "Donation created successfully", "donation": d})
}

// GET /api/donations 进行中的捐赠，公开
func (h *DonationHandler) ListActive(c *gin.Context) {
	ds, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if ds == nil {
		ds = []domain.Donation{}
	}
	resp.OK(c, ds)
}

// GET /api/donations/user
func (h *DonationHandler) ListMine(c *gin.Context) {
	ds, err := h.svc.ListByDonor(c.Request.Context(), c.GetString(mdw.KeyUserEmail))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if ds == nil {
		ds = []domain.Donation{}
	}
	resp.OK(c, ds)
}
