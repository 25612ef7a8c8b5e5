package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-stock-insight/internal/analyzer/config"
	"golang-stock-insight/internal/analyzer/repository"
	"golang-stock-insight/internal/analyzer/service"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/postgres"
	"golang-stock-insight/pkg/telegram"

	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analyzer on its cron schedule",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, svc service.AnalyzerService, appLogger *logger.Logger) {
			if err := svc.Start(ctx); err != nil {
				appLogger.Fatal("Analyzer failed", logger.ErrorField(err))
			}
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Runs the analysis pipeline once and exits",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, svc service.AnalyzerService, appLogger *logger.Logger) {
			if _, err := svc.RunOnce(ctx); err != nil {
				appLogger.Fatal("Analysis run failed", logger.ErrorField(err))
			}
		})
	},
}

func run(fn func(ctx context.Context, svc service.AnalyzerService, appLogger *logger.Logger)) {
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

	appLogger.Info("Starting Analyzer Service", logger.Field("name", cfg.App.Name))

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
	if err := db.DB.AutoMigrate(entity.Models()...); err != nil {
		appLogger.Fatal("Failed to migrate database schema", logger.ErrorField(err))
	}

	// The AI provider is optional; without it the lexicon scorer applies.
	var aiRepo repository.AIRepository
	if cfg.AI.Provider == "gemini" && cfg.Gemini.APIKey != "" {
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini repository", logger.ErrorField(err))
		}
	}

	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Error("Failed to initialize Telegram notifier", logger.ErrorField(err))
			notifier = nil
		}
	}

	svc := service.NewAnalyzerService(
		cfg,
		appLogger,
		repository.NewUniverseRepository(db.DB, cfg, appLogger),
		repository.NewNewsRepository(cfg, appLogger),
		repository.NewYahooFinanceRepository(cfg, appLogger),
		aiRepo,
		repository.NewStocksWriteRepository(db.DB),
		repository.NewPricesWriteRepository(db.DB),
		repository.NewPredictionsWriteRepository(db.DB),
		repository.NewNewsWriteRepository(db.DB),
		repository.NewAnalysisRunRepository(db.DB),
		notifier,
	)

	fn(ctx, svc, appLogger)
}

func main() {
	rootCmd := &cobra.Command{Use: "analyzer-service"}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-analyzer.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analyzer-service CLI: %s\n", err)
		os.Exit(1)
	}
}
