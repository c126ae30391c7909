package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/avidya-edu/academy-cms-gateway/api/swagger"
	"github.com/avidya-edu/academy-cms-gateway/internal/handler"
	"github.com/avidya-edu/academy-cms-gateway/internal/middleware"
	"github.com/avidya-edu/academy-cms-gateway/internal/repository"
	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	"github.com/avidya-edu/academy-cms-gateway/pkg/cache"
	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
	"github.com/avidya-edu/academy-cms-gateway/pkg/database"
	"github.com/avidya-edu/academy-cms-gateway/pkg/jobs"
	"github.com/avidya-edu/academy-cms-gateway/pkg/logger"
	corsmiddleware "github.com/avidya-edu/academy-cms-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/avidya-edu/academy-cms-gateway/pkg/middleware/requestid"
	"github.com/avidya-edu/academy-cms-gateway/pkg/storage"
)

// @title Academy CMS Gateway
// @version 0.1.0
// @description Gateway for the academy public site and admin console
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := service.NewMetricsService()
	client := upstream.NewClient(cfg.Upstream, metrics, logr)

	var sessionStore service.SessionStore
	var cacheStore service.CacheStore
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis unavailable", "error", err)
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	sessionStore = cacheRepo
	cacheStore = cacheRepo

	var audit service.AuditRecorder
	var auditRepo *repository.AuditRepository
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("postgres unavailable", "error", err)
		}
		auditRepo = repository.NewAuditRepository(db)
		if err := auditRepo.EnsureSchema(ctx); err != nil {
			logr.Sugar().Fatalw("audit schema failed", "error", err)
		}
		audit = auditRepo
	}

	reconciler := service.NewReconciler(service.ReconcilerParams{
		Client:      client,
		SettleDelay: cfg.Reconciler.SettleDelay,
		Logger:      logr,
	})
	refreshQueue := jobs.NewQueue("content-refresh", func(ctx context.Context, job jobs.Job) error {
		if err := reconciler.HandleRefreshJob(ctx, job); err != nil {
			return err
		}
		metrics.ObserveContentRefresh()
		return nil
	}, jobs.QueueConfig{
		Workers:    cfg.Reconciler.RefreshWorkers,
		MaxRetries: cfg.Reconciler.RefreshRetries,
		Logger:     logr,
	})
	refreshQueue.Start(ctx)
	defer refreshQueue.Stop()
	reconciler.AttachScheduler(refreshQueue)

	cacheSvc := service.NewCacheService(cacheStore, cfg.Cache, logr)
	sessions := service.NewSessionService(service.SessionServiceParams{
		Config: cfg.Session,
		Store:  sessionStore,
		Audit:  audit,
		Logger: logr,
	})
	contentSvc := service.NewContentService(reconciler, cacheSvc, logr)
	cmsSvc := service.NewCMSService(service.CMSServiceParams{
		Client:     client,
		Reconciler: reconciler,
		Audit:      audit,
		Logger:     logr,
	})
	readmissionSvc := service.NewReadmissionService(service.ReadmissionServiceParams{
		Client: client,
		Audit:  audit,
		Logger: logr,
	})
	dashboardSvc := service.NewDashboardService(reconciler, readmissionSvc, cacheSvc, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("export storage failed", "error", err)
	}
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Reconciler:   reconciler,
		Readmissions: readmissionSvc,
		Store:        exportStore,
		Audit:        audit,
		Logger:       logr,
	})
	go exportSvc.CleanupLoop(ctx, cfg.Exports.CleanupInterval, cfg.Exports.RetainFor)

	var uploadStore *storage.LocalStorage
	if cfg.Uploads.LocalDir != "" {
		uploadStore, err = storage.NewLocalStorage(cfg.Uploads.LocalDir)
		if err != nil {
			logr.Sugar().Fatalw("upload storage failed", "error", err)
		}
	}
	uploadSvc := service.NewUploadService(service.UploadServiceParams{
		Client: client,
		Local:  uploadStore,
		Config: cfg.Uploads,
		Audit:  audit,
		Logger: logr,
	})

	authHandler := handler.NewAuthHandler(sessions)
	cmsHandler := handler.NewCMSHandler(cmsSvc, contentSvc, cacheSvc)
	publicHandler := handler.NewPublicHandler(contentSvc, readmissionSvc)
	readmissionHandler := handler.NewReadmissionHandler(readmissionSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/landing", publicHandler.Landing)
	api.POST("/readmissions", publicHandler.SubmitReadmission)

	api.POST("/admin/auth/login", authHandler.Login)
	api.POST("/admin/auth/logout", authHandler.Logout)

	admin := api.Group("/admin", middleware.SessionGuard(sessions))
	admin.GET("/cms/content", cmsHandler.GetContent)
	admin.POST("/refresh", cmsHandler.RefreshContent)
	admin.POST("/cms/:section", cmsHandler.Create)
	admin.POST("/cms/:section/reorder", cmsHandler.Reorder)
	admin.PUT("/cms/:section/:id", cmsHandler.Update)
	admin.DELETE("/cms/:section/:id", cmsHandler.Delete)
	admin.GET("/readmissions", readmissionHandler.List)
	admin.PUT("/readmissions/:id/approve", readmissionHandler.Approve)
	admin.PUT("/readmissions/:id/reject", readmissionHandler.Reject)
	admin.GET("/dashboard", dashboardHandler.Summary)
	admin.GET("/exports/:report", exportHandler.Download)
	if auditRepo != nil {
		admin.GET("/audit", handler.NewAuditHandler(auditRepo).List)
	}

	uploads := api.Group("/uploads", middleware.SessionGuard(sessions))
	uploads.POST("/image", uploadHandler.Image)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("gateway starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.Origin)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("gateway failed", "error", err)
	}
}
