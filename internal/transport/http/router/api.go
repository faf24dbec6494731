package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carexchange/internal/core/auth"
	"carexchange/internal/domain"
	"carexchange/internal/transport/http/handler"
	mdw "carexchange/internal/transport/http/middleware"
)

type APIDeps struct {
	Log       *zap.Logger
	JWTer     *auth.JWTer
	Users     domain.UserRepository
	Auth      *handler.AuthHandler
	Medicines *handler.MedicineHandler
	Donations *handler.DonationHandler
	Requests  *handler.RequestHandler
	Profile   *handler.UserHandler
	Secure    bool   // 生产环境 Cookie 加 Secure
	UploadDir string // /uploads 静态托管目录
}

func NewAPIEngine(d APIDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	// 会话解析全局挂载；页面门只管非 /api 路径
	r.Use(mdw.Session(d.JWTer, d.Users, d.Secure))
	r.Use(mdw.PageGate())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", d.UploadDir)

	api := r.Group("/api")

	// 认证
	authPub := api.Group("/auth")
	{
		authPub.POST("/signup", d.Auth.Signup)
		authPub.POST("/login", d.Auth.Login)
		authPub.POST("/logout", d.Auth.Logout)
		authPub.POST("/forgot-password", d.Auth.ForgotPassword)
		authPub.POST("/reset-password", d.Auth.ResetPassword)
		authPub.PUT("/reset-password", d.Auth.ResetPassword)
		authPub.POST("/verify-email", d.Auth.SendVerification)
		authPub.PUT("/verify-email", d.Auth.ConfirmVerification)
		authPub.POST("/check-email", d.Auth.CheckEmail)
	}
	authed := api.Group("/auth", mdw.RequireAuth())
	{
		authed.GET("/me", d.Auth.Me)
		authed.PUT("/change-password", d.Auth.ChangePassword)
	}

	// 药品
	meds := api.Group("/medicines")
	{
		meds.GET("", d.Medicines.List)
		meds.GET("/user", mdw.RequireAuth(), d.Medicines.ListMine)
		meds.GET("/:id", d.Medicines.Get)
		meds.POST("", mdw.RequireRole(domain.RoleDonor), d.Medicines.Create)
		meds.POST("/:id/rate", mdw.RequireAuth(), d.Medicines.Rate)
	}

	// 捐赠 / 求药
	api.POST("/donations", mdw.RequireAuth(), d.Donations.Create)
	api.GET("/donations", d.Donations.ListActive)
	api.GET("/donations/user", mdw.RequireAuth(), d.Donations.ListMine)
	api.POST("/requests", mdw.RequireAuth(), d.Requests.Create)
	api.GET("/requests/user", mdw.RequireAuth(), d.Requests.ListMine)

	// 个人资料
	users := api.Group("/users", mdw.RequireAuth())
	{
		users.GET("/profile", d.Profile.Profile)
		users.PUT("/profile", d.Profile.UpdateProfile)
		users.POST("/avatar", d.Profile.UploadAvatar)
	}

	return r
}
