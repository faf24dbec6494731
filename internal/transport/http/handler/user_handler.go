package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carexchange/internal/service"
	mdw "carexchange/internal/transport/http/middleware"
	resp "carexchange/internal/transport/http/response"
)

type UserHandler struct {
	svc       *service.UserService
	uploadDir string
	maxBytes  int64 // 单个头像文件上限
	log       *zap.Logger
}

func NewUserHandler(svc *service.UserService, uploadDir string, maxSizeMB int, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, uploadDir: uploadDir, maxBytes: int64(maxSizeMB) << 20, log: log}
}

// GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, u)
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var in service.ProfileUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), c.GetString(mdw.KeyUserID), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"message": "Profile updated successfully", "user": u})
}

// POST /api/users/avatar multipart 上传，uuid 文件名落盘，/uploads 静态托管
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		resp.Fail(c, http.StatusBadRequest, "File exceeds the size limit")
		return
	}

	ext := filepath.Ext(file.Filename)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		resp.Fail(c, http.StatusBadRequest, "Unsupported image type")
		return
	}

	dir := filepath.Join(h.uploadDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail(c, h.log, err)
		return
	}
	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		fail(c, h.log, err)
		return
	}

	avatarURL := "/uploads/avatars/" + filename
	if _, err := h.svc.SetAvatar(c.Request.Context(), c.GetString(mdw.KeyUserID), avatarURL); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"avatarUrl": avatarURL})
}
