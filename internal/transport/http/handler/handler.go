package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carexchange/internal/service"
	mdw "carexchange/internal/transport/http/middleware"
	resp "carexchange/internal/transport/http/response"
)

// fail 业务错误 → HTTP 状态码的唯一翻译点
func fail(c *gin.Context, l *zap.Logger, err error) {
	var ve service.ValidationError
	switch {
	case errors.As(err, &ve):
		resp.Fail(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		resp.Fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrDuplicateEmail):
		// 历史行为是 400 而非 409，前端按这个分支做的提示
		resp.Fail(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrInvalidRating):
		resp.Fail(c, http.StatusBadRequest, "Invalid rating value")
	case errors.Is(err, service.ErrInvalidToken):
		resp.Fail(c, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, service.ErrAlreadyVerified):
		resp.Fail(c, http.StatusBadRequest, "Email already verified")
	case errors.Is(err, service.ErrWrongPassword):
		resp.Fail(c, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, service.ErrMailUnavailable):
		resp.Fail(c, http.StatusServiceUnavailable, "Mail service is not available")
	default:
		l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		resp.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
