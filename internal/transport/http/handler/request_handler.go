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

type RequestHandler struct {
	svc *service.RequestService
	log *zap.Logger
}

func NewRequestHandler(svc *service.RequestService, log *zap.Logger) *RequestHandler {
	return &RequestHandler{svc: svc, log: log}
}

// POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var in service.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	r, err := h.svc.Create(c.Request.Context(), in, c.GetString(mdw.KeyUserEmail))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Created(c, gin.H{"message": "Request created successfully", "request": r})
}

// GET /api/requests/user
func (h *RequestHandler) ListMine(c *gin.Context) {
	rs, err := h.svc.ListByRecipient(c.Request.Context(), c.GetString(mdw.KeyUserEmail))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if rs == nil {
		rs = []domain.Request{}
	}
	resp.OK(c, rs)
}
