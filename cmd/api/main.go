package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/psc-ict/opencourt-api/api/swagger"
	"github.com/psc-ict/opencourt-api/internal/handler"
	"github.com/psc-ict/opencourt-api/internal/middleware"
	"github.com/psc-ict/opencourt-api/internal/models"
	"github.com/psc-ict/opencourt-api/internal/repository"
	"github.com/psc-ict/opencourt-api/internal/service"
	"github.com/psc-ict/opencourt-api/pkg/cache"
	"github.com/psc-ict/opencourt-api/pkg/config"
	"github.com/psc-ict/opencourt-api/pkg/database"
	"github.com/psc-ict/opencourt-api/pkg/export"
	"github.com/psc-ict/opencourt-api/pkg/logger"
	corsmiddleware "github.com/psc-ict/opencourt-api/pkg/middleware/cors"
	reqidmiddleware "github.com/psc-ict/opencourt-api/pkg/middleware/requestid"
	"github.com/psc-ict/opencourt-api/pkg/storage"
)

// @title Open Court API
// @version 1.0.0
// @description Grievance redressal tracking for open court hearings
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
		redisClient = nil
	}
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)

	store, err := storage.NewLocalStorage(cfg.Media.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init media storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Media.SignedURLSecret, cfg.Media.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	auditTrail := service.NewAuditTrail(userRepo, 2, logr)
	auditTrail.Start(context.Background())
	defer auditTrail.Stop()

	statsSvc := service.NewStatsService(applicationRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, auditTrail, statsSvc, validate, logr)
	importSvc := service.NewImportService(applicationRepo, auditTrail, statsSvc, metricsSvc, logr)
	exportSvc := service.NewExportService(applicationSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	staffSvc := service.NewStaffService(userRepo, validate, logr)
	videoSvc := service.NewVideoService(videoRepo, auditTrail, store, signer, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc, importSvc, cfg.Import.MaxFileSizeBytes)
	exportHandler := handler.NewExportHandler(exportSvc, applicationSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	metaHandler := handler.NewMetaHandler(applicationSvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	videoHandler := handler.NewVideoHandler(videoSvc, cfg.Import.MaxFileSizeBytes)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/user", authHandler.CurrentUser)
		authed.POST("/auth/change-password", authHandler.ChangePassword)

		authed.GET("/applications", applicationHandler.List)
		authed.POST("/applications", applicationHandler.Create)
		authed.GET("/applications/:id", applicationHandler.Get)
		authed.PATCH("/applications/:id", applicationHandler.Update)
		authed.DELETE("/applications/:id", applicationHandler.Delete)
		authed.PATCH("/applications/:id/update_status", applicationHandler.UpdateStatus)
		authed.PATCH("/applications/:id/update_feedback", applicationHandler.UpdateFeedback)
		authed.POST("/upload-excel", applicationHandler.Import)
		authed.GET("/export-applications", exportHandler.Export)

		authed.GET("/dashboard-stats", statsHandler.Dashboard)

		authed.GET("/police-stations", metaHandler.PoliceStations)
		authed.GET("/categories", metaHandler.Categories)
		authed.GET("/divisions", metaHandler.Divisions)

		authed.GET("/video-feedback-stats", videoHandler.Stats)
		authed.GET("/media/:token", videoHandler.Media)

		admin := authed.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/staff", staffHandler.List)
			admin.POST("/staff", staffHandler.Create)
			admin.GET("/staff/:id", staffHandler.Get)
			admin.PATCH("/staff/:id", staffHandler.Update)
			admin.DELETE("/staff/:id", staffHandler.Delete)

			admin.GET("/video-feedback", videoHandler.List)
			admin.POST("/video-feedback", videoHandler.Submit)
			admin.GET("/video-feedback/:id", videoHandler.Get)
			admin.POST("/video-feedback/:id/submit_feedback", videoHandler.SubmitReview)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
