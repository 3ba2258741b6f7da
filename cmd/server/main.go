// Package main runs the academy backend HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chiplogic-academy/backend/config"
	"github.com/chiplogic-academy/backend/internal/auth"
	"github.com/chiplogic-academy/backend/internal/dashboard"
	"github.com/chiplogic-academy/backend/internal/emailer"
	"github.com/chiplogic-academy/backend/internal/leads"
	"github.com/chiplogic-academy/backend/internal/middleware"
	"github.com/chiplogic-academy/backend/internal/models"
	"github.com/chiplogic-academy/backend/internal/payments"
	"github.com/chiplogic-academy/backend/internal/registrations"
	"github.com/chiplogic-academy/backend/internal/resources"
	"github.com/chiplogic-academy/backend/internal/verify"
	"github.com/chiplogic-academy/backend/pkg/database"
	"github.com/chiplogic-academy/backend/pkg/queue"
	"github.com/chiplogic-academy/backend/pkg/redis"
	"github.com/chiplogic-academy/backend/pkg/response"
	"github.com/chiplogic-academy/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ResourcesBucket:      cfg.AWS.ResourcesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Staff auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)
	seedAdmin(ctx, authRepo, cfg, logger)

	// Lead capture
	leadRepo := leads.NewRepository(pool)
	leadHandler := leads.NewHandler(leadRepo, jobQueue, s3Client, cfg.Offerings.BrochureObjectKey, logger)

	// Payments: dummy gateway only outside production and behind the flag,
	// otherwise the real gateway client. Confirm is always the real callback.
	var gateway payments.Gateway
	if cfg.DummyPayAllowed() {
		gateway = payments.DummyGateway{}
		logger.Warn("dummy payment gateway enabled; do not use in production")
	} else {
		gateway = payments.NewGatewayClient(
			cfg.Payment.GatewayBaseURL,
			cfg.Payment.GatewayKeyID,
			cfg.Payment.GatewayKeySecret,
			cfg.Payment.GatewayRetries,
			cfg.Payment.GatewayTimeoutSec,
			logger,
		)
	}
	paymentRepo := payments.NewRepository(pool)
	paymentSvc := payments.NewService(paymentRepo, gateway, cfg.Payment, cfg.Offerings, logger)
	paymentHandler := payments.NewHandler(paymentSvc, paymentRepo, logger)

	// Registration intake
	registrationHandler := registrations.NewHandler(paymentSvc, logger)

	// Gated resources
	resourceRepo := resources.NewRepository(pool)
	resourceHandler := resources.NewHandler(resourceRepo, s3Client, logger)
	var presigner dashboard.Presigner
	if s3Client != nil {
		presigner = s3Client
	}
	gate := dashboard.NewGate(paymentRepo, resourceRepo, presigner, map[string]string{
		models.OfferingWorkshop: cfg.Offerings.WorkshopUpsellURL,
		models.OfferingCohort:   cfg.Offerings.CohortUpsellURL,
	}, logger)
	dashboardHandler := dashboard.NewHandler(gate, logger)

	// Email deliverability probe
	verifyHandler := verify.NewHandler(verify.NewChecker(cfg.Email.VerifyAPIURL, logger), logger)

	// Email logs (written by the worker, listed by admins)
	emailRepo := emailer.NewRepository(pool)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public forms (rate limited per IP)
	formLimit := middleware.RateLimit(rdb.Client, logger, "forms", 10, time.Minute)
	forms := router.Group("/api/forms", formLimit)
	{
		forms.POST("/contact", leadHandler.Contact)
		forms.POST("/brochure", leadHandler.Brochure)
		forms.POST("/workshop", leadHandler.WorkshopInterest)
	}
	router.GET("/api/email/verify", formLimit, verifyHandler.Check)

	// Registration -> payment -> gated access
	payLimit := middleware.RateLimit(rdb.Client, logger, "payment", 20, time.Minute)
	router.POST("/api/payment/workshop/dummy-pay", payLimit, registrationHandler.RegisterWorkshop)
	router.POST("/api/payment/cohort/dummy-pay", payLimit, registrationHandler.RegisterCohort)
	router.GET("/api/payment/:purpose/confirm", paymentHandler.Confirm)
	router.GET("/api/dashboard/resources", dashboardHandler.Resources)

	// Staff
	router.POST("/auth/login", authHandler.Login)
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole("admin"))
	{
		admin.GET("/leads", leadHandler.List)
		admin.GET("/payments", paymentHandler.ListGrants)
		admin.GET("/resources", resourceHandler.List)
		admin.POST("/resources", resourceHandler.Create)
		admin.POST("/resources/upload", resourceHandler.Upload)
		admin.GET("/emails", func(c *gin.Context) {
			list, err := emailRepo.List(c.Request.Context(), 100)
			if err != nil {
				response.Internal(c, "failed to list email logs")
				return
			}
			response.OK(c, list)
		})
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// seedAdmin bootstraps the first staff account from env when configured.
func seedAdmin(ctx context.Context, repo *auth.Repository, cfg *config.Config, logger *zap.Logger) {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return
	}
	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		logger.Error("seed admin hash", zap.Error(err))
		return
	}
	if _, err := repo.Create(ctx, cfg.Admin.Email, hash, "admin"); err != nil {
		logger.Error("seed admin", zap.Error(err))
		return
	}
	logger.Info("admin account ensured", zap.String("email", cfg.Admin.Email))
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
