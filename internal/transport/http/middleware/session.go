package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carexchange/internal/core/auth"
	"carexchange/internal/domain"
	resp "carexchange/internal/transport/http/response"
)

// 会话 Cookie
const (
	SessionCookie = "token"
	KeyUserID     = "userId"
	KeyUserEmail  = "userEmail"
	KeyRole       = "role"
)

func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}

// Session 解析会话：Cookie 里的 token（兼容 Authorization: Bearer），验签后实时查库拿角色。
// 令牌无效只清 Cookie、放行为未登录态，拦截交给 RequireAuth / PageGate
func Session(j *auth.JWTer, users domain.UserRepository, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		if token == "" {
			if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				token = strings.TrimPrefix(ah, "Bearer ")
			}
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := j.Parse(token)
		if err != nil {
			ClearSessionCookie(c, secure)
			c.Next()
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.UID)
		if err != nil || u == nil {
			ClearSessionCookie(c, secure)
			c.Next()
			return
		}

		c.Set(KeyUserID, u.ID)
		c.Set(KeyUserEmail, u.Email)
		c.Set(KeyRole, u.Role)
		c.Next()
	}
}

// RequireAuth API 分组用：未登录直接 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyUserID) == "" {
			resp.Fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}

// RequireRole 角色限定接口（管理端整组、捐赠方上新等）
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyUserID) == "" {
			resp.Fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		role := c.GetString(KeyRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		resp.Fail(c, http.StatusForbidden, "Forbidden")
	}
}
