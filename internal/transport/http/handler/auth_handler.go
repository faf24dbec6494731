package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carexchange/internal/core/auth"
	"carexchange/internal/domain"
	"carexchange/internal/service"
	mdw "carexchange/internal/transport/http/middleware"
	resp "carexchange/internal/transport/http/response"
)

type AuthHandler struct {
	svc          *service.AuthService
	jwter        *auth.JWTer
	cookieMaxAge int // 秒
	secure       bool
	log          *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, jwter *auth.JWTer, cookieMaxAge int, secure bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, jwter: jwter, cookieMaxAge: cookieMaxAge, secure: secure, log: log}
}

// sanitized 对外只暴露基础字段（密码散列由 json:"-" 挡住，这里进一步收窄）
func sanitized(u *domain.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"isVerified": u.Verified,
	}
}

func (h *AuthHandler) startSession(c *gin.Context, u *domain.User) bool {
	token, err := h.jwter.Issue(u.ID)
	if err != nil || token == "" {
		fail(c, h.log, err)
		return false
	}
	mdw.SetSessionCookie(c, token, h.cookieMaxAge, h.secure)
	return true
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var in service.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	u, err := h.svc.Signup(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if !h.startSession(c, u) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": sanitized(u)})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	u, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if !h.startSession(c, u) {
		return
	}
	resp.OK(c, gin.H{"message": "Logged in successfully", "user": sanitized(u)})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	mdw.ClearSessionCookie(c, h.secure)
	resp.Message(c, "Logged out successfully")
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, u)
}

// PUT /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	uid := c.GetString(mdw.KeyUserID)
	if err := h.svc.ChangePassword(c.Request.Context(), uid, in.CurrentPassword, in.NewPassword); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Message(c, "Password updated successfully")
}

// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.svc.ForgotPassword(c.Request.Context(), in.Email); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Message(c, "Password reset email sent successfully")
}

// POST|PUT /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), in.Token, in.Password); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Message(c, "Password reset successful")
}

// POST /api/auth/verify-email 发验证信
func (h *AuthHandler) SendVerification(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.svc.SendVerification(c.Request.Context(), in.Email); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Message(c, "Verification email sent")
}

// PUT /api/auth/verify-email 核销令牌
func (h *AuthHandler) ConfirmVerification(c *gin.Context) {
	var in struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.svc.ConfirmVerification(c.Request.Context(), in.Token); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Message(c, "Email verified successfully")
}

// POST /api/auth/check-email 注册表单的邮箱占用检查
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	exists, err := h.svc.EmailExists(c.Request.Context(), in.Email)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"exists": exists})
}
