package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/employee-admin/api/swagger"
	"github.com/noah-isme/employee-admin/internal/handler"
	internalmiddleware "github.com/noah-isme/employee-admin/internal/middleware"
	"github.com/noah-isme/employee-admin/internal/repository"
	"github.com/noah-isme/employee-admin/internal/service"
	"github.com/noah-isme/employee-admin/pkg/cache"
	"github.com/noah-isme/employee-admin/pkg/config"
	"github.com/noah-isme/employee-admin/pkg/database"
	"github.com/noah-isme/employee-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/employee-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/employee-admin/pkg/middleware/requestid"
	"github.com/noah-isme/employee-admin/pkg/storage"
)

// @title Employee Admin API
// @version 1.0.0
// @description Employee records with photo upload for the admin panel
// @BasePath /api
// @schemes http

const shutdownTimeout = 10 * time.Second

type imageStore interface {
	SaveStream(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, filename string) error
	URL(filename string) string
}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	employeeRepo := repository.NewEmployeeRepository(db)
	if err := employeeRepo.EnsureSchema(ctx); err != nil {
		logr.Fatal("failed to prepare schema", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()

	cacheRepo, closeCache, err := buildCacheRepository(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to init cache", zap.Error(err))
	}
	defer closeCache()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	images, uploadsDir, err := buildImageStore(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to init image storage", zap.Error(err))
	}

	employeeSvc := service.NewEmployeeService(employeeRepo, images, cacheSvc, metricsSvc, validator.New(), logr, service.EmployeeServiceConfig{
		MaxImageSize: cfg.Uploads.MaxFileSizeBytes,
	})
	exportSvc := service.NewExportService(employeeSvc, logr, nil, nil)

	r := gin.New()
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/metrics"))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, employeeRepo)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if uploadsDir != "" {
		r.Static("/uploads", uploadsDir)
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterEmployeeRoutes(api, handler.NewEmployeeHandler(employeeSvc, exportSvc))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Uploads.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildCacheRepository prefers Redis and falls back to an in-process cache.
func buildCacheRepository(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.CacheRepository, func(), error) {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, func() {}, err
	}
	if client == nil {
		logr.Info("redis disabled, using in-memory cache")
		return repository.NewMemoryCacheRepository(cfg.Cache.TTL), func() {}, nil
	}
	redisRepo := repository.NewRedisCacheRepository(client, logr)
	return redisRepo, func() { _ = redisRepo.Close() }, nil
}

// buildImageStore returns the configured photo backend and, for local storage, the
// directory to serve under /uploads.
func buildImageStore(ctx context.Context, cfg *config.Config) (imageStore, string, error) {
	switch cfg.Uploads.Driver {
	case "", config.StorageDriverLocal:
		local, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.PublicURL)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	case config.StorageDriverS3:
		s3Store, err := storage.NewS3Storage(ctx, cfg.S3, cfg.S3.PublicURL)
		if err != nil {
			return nil, "", err
		}
		return s3Store, "", nil
	default:
		return nil, "", fmt.Errorf("unknown storage driver %q", cfg.Uploads.Driver)
	}
}
