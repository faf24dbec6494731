package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carexchange/internal/core/auth"
	"carexchange/internal/core/cache"
	"carexchange/internal/core/config"
	"carexchange/internal/core/database"
	"carexchange/internal/core/logger"
	"carexchange/internal/core/mailer"
	"carexchange/internal/core/server"
	"carexchange/internal/domain"
	"carexchange/internal/repo"
	"carexchange/internal/service"
	"carexchange/internal/transport/http/handler"
	"carexchange/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Medicine{},
			&domain.Rating{},
			&domain.Donation{},
			&domain.Request{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis 列表缓存，连不上也不致命（降级为直查）
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	// SMTP 未配置时跳过，找回密码/验证邮件会报不可用
	var mail service.Mailer
	if cfg.SMTP.Host != "" {
		m, err := mailer.New(cfg.SMTP)
		if err != nil {
			log.Fatal("smtp dialer", zap.Error(err))
		}
		mail = m
	} else {
		log.Warn("smtp not configured, mail features disabled")
	}

	// 会话 Token
	ttl := time.Duration(cfg.JWT.SessionTTLDays) * 24 * time.Hour
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    ttl,
	}

	users := repo.NewUserRepo(db)
	medicines := repo.NewMedicineRepo(db)
	donations := repo.NewDonationRepo(db)
	requests := repo.NewRequestRepo(db)

	hasher := auth.BcryptHasher{Cost: 10}
	authSvc := service.NewAuthService(users, hasher, mail, cfg.App.BaseURL)
	userSvc := service.NewUserService(users)
	medSvc := service.NewMedicineService(medicines, c)
	donSvc := service.NewDonationService(donations)
	reqSvc := service.NewRequestService(requests)

	r := router.NewAPIEngine(router.APIDeps{
		Log:       log,
		JWTer:     jwter,
		Users:     users,
		Auth:      handler.NewAuthHandler(authSvc, jwter, int(ttl.Seconds()), cfg.IsProd(), log),
		Medicines: handler.NewMedicineHandler(medSvc, log),
		Donations: handler.NewDonationHandler(donSvc, log),
		Requests:  handler.NewRequestHandler(reqSvc, log),
		Profile:   handler.NewUserHandler(userSvc, cfg.Upload.Dir, cfg.Upload.MaxSizeMB, log),
		Secure:    cfg.IsProd(),
		UploadDir: cfg.Upload.Dir,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("carexchange api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("carexchange api start FAILED", zap.Error(err))
		}
	}()
	log.Info("carexchange api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("carexchange api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
