package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carexchange/internal/core/auth"
	"carexchange/internal/domain"
	"carexchange/internal/transport/http/handler"
	mdw "carexchange/internal/transport/http/middleware"
)

type AdminDeps struct {
	Log    *zap.Logger
	JWTer  *auth.JWTer
	Users  domain.UserRepository
	Admin  *handler.AdminHandler
	Secure bool
}

// 管理端独立进程，勤快点限流就够了
func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(20, 40),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	g := r.Group("/admin/v1", mdw.Session(d.JWTer, d.Users, d.Secure), mdw.RequireRole(domain.RoleAdmin))
	{
		g.GET("/users", d.Admin.ListUsers)
		g.POST("/users/:id/ban", d.Admin.BanUser)
		g.PUT("/medicines/:id/verify", d.Admin.VerifyMedicine)
	}

	return r
}
