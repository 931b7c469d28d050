package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resellPilot/app/echo-server/router"
	"resellPilot/business/advisor"
	"resellPilot/business/bundle"
	itemService "resellPilot/business/item"
	"resellPilot/internal/middleware"
	"resellPilot/internal/repository/oracle"
	psqlRepo "resellPilot/internal/repository/postgres"
	redisRepo "resellPilot/internal/repository/redis"
	"resellPilot/internal/rest"
	"resellPilot/pkg/cache"
	"resellPilot/pkg/config"
	"resellPilot/pkg/database"
	redisdb "resellPilot/pkg/database/redis"
	"resellPilot/pkg/logger"
	"resellPilot/pkg/metrics"
	"resellPilot/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ResellPilot", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close redis client", err)
		}
	}()

	// Oracle adapters for the managed AI endpoints
	oracleCfg := oracle.OracleConfig{
		BaseURL:           cfg.Oracle.BaseURL,
		BasicAuthUsername: cfg.Oracle.BasicAuthUsername,
		BasicAuthPassword: cfg.Oracle.BasicAuthPassword,
		Timeout:           cfg.Oracle.Timeout,
	}
	recommendationRepo := oracle.NewRecommendationRepository(oracleCfg)
	enrichmentRepo := oracle.NewEnrichmentRepository(oracleCfg)

	// Init repo
	itemRepo := psqlRepo.NewItemRepository(db)
	insightRepo := psqlRepo.NewInsightRepository(db)
	bundleRepo := psqlRepo.NewBundleRepository(db)
	dismissalRepo := redisRepo.NewDismissalRepository(redisClient, cfg.Advisor.SessionTTL)

	// One in-process cache instance for the whole process
	memCache := cache.New(5*time.Minute, nil)

	// Init service
	advisorService := advisor.NewAdvisorService(
		insightRepo,
		itemRepo,
		bundleRepo,
		dismissalRepo,
		recommendationRepo,
		enrichmentRepo,
		memCache,
		cfg.Advisor.FreshnessWindow,
		cfg.Advisor.SoldWindow,
	)
	itemSvc := itemService.NewItemService(itemRepo)
	bundleSvc := bundle.NewBundleService(bundleRepo)

	// Init handler
	advisorHandler := rest.NewAdvisorHandler(advisorService)
	itemHandler := rest.NewItemHandler(itemSvc)
	bundleHandler := rest.NewBundleHandler(bundleSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupItemRoutes(api, itemHandler)
	router.SetupAdvisorRoutes(api, advisorHandler)
	router.SetupBundleRoutes(api, bundleHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
