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

	"golang-stock-insight/internal/api/config"
	delivery "golang-stock-insight/internal/api/delivery/http"
	_ "golang-stock-insight/internal/api/docs"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/postgres"
	"golang-stock-insight/pkg/redis"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service",
		logger.Field("name", cfg.App.Name),
		logger.Field("datasource", cfg.Datasource.Driver),
	)

	// Initialize the backing store for stock reads.
	var (
		stocksRepo      repository.StocksRepository
		pricesRepo      repository.StockPricesRepository
		predictionsRepo repository.StockPredictionsRepository
	)
	switch cfg.Datasource.Driver {
	case "file":
		stocksRepo, pricesRepo, predictionsRepo, err = repository.NewFileRepositories(cfg.Datasource.Dir)
		if err != nil {
			appLogger.Fatal("Failed to load file datasource", logger.ErrorField(err))
		}
	default:
		postgresCfg := postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}
		db, err := postgres.NewDB(postgresCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			defer sqlDB.Close()
		}
		stocksRepo = repository.NewStocksRepository(db.DB)
		pricesRepo = repository.NewStockPricesRepository(db.DB)
		predictionsRepo = repository.NewStockPredictionsRepository(db.DB)
	}

	// Redis is optional; without it reads skip the cache layer.
	var redisConn *goredis.Client
	if cfg.Redis.Host != "" {
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err := redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Error("Failed to initialize Redis, proceeding without cache", logger.ErrorField(err))
		} else {
			defer redisClient.Close()
			redisConn = redisClient.Client
		}
	}

	stockSvc := service.NewStockService(stocksRepo, pricesRepo, predictionsRepo, redisConn, appLogger, cfg.API.CacheTTL, cfg.API.MaxConcurrentEnrich)

	e := echo.New()
	e.HideBanner = true

	healthHandler := delivery.NewHealthHandler()
	healthHandler.RegisterRoutes(e)

	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	apiGroup := e.Group("/api")
	stocksGroup := apiGroup.Group("/stocks")
	stockHandler.RegisterRoutes(stocksGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock Insight API
// @version 1.0
// @description Read API for the stock sentiment dashboard.
// @BasePath /api
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
