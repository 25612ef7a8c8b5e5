package config

import (
	"time"

	"golang-stock-insight/pkg/config"
)

// Analyzer holds analyzer-specific configuration.
type Analyzer struct {
	// Schedule is a cron expression; empty disables the scheduler so only the
	// run-once command applies.
	Schedule string `mapstructure:"schedule"`
	// MaxStocks caps how many universe members are analyzed per run.
	MaxStocks int `mapstructure:"max_stocks"`
	// DaysBack limits news to the most recent window.
	DaysBack int `mapstructure:"days_back"`
	// HistoryDays is the price lookback used for predictions.
	HistoryDays int `mapstructure:"history_days"`
	// PredictionDays is how far ahead the predictor projects.
	PredictionDays int `mapstructure:"prediction_days"`
	// MaxConcurrent bounds the per-ticker worker fan-out.
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// FullTextSentiment also scores extracted article bodies, not just
	// headlines.
	FullTextSentiment bool `mapstructure:"full_text_sentiment"`
	// ExportDir, when set, receives the JSON corpus for the file datasource.
	ExportDir string `mapstructure:"export_dir"`
}

// News holds the news scraping configuration.
type News struct {
	FinvizBaseURL       string        `mapstructure:"finviz_base_url"`
	YahooRSSBaseURL     string        `mapstructure:"yahoo_rss_base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// YahooFinance holds the configuration for the Yahoo Finance chart API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Universe holds the ticker universe source configuration.
type Universe struct {
	ConstituentsURL string `mapstructure:"constituents_url"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the analyzer service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Analyzer     Analyzer        `mapstructure:"analyzer"`
	News         News            `mapstructure:"news"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Universe     Universe        `mapstructure:"universe"`
	Gemini       Gemini          `mapstructure:"gemini"`
	AI           AI              `mapstructure:"ai"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Analyzer.MaxStocks <= 0 {
		cfg.Analyzer.MaxStocks = 50
	}
	if cfg.Analyzer.DaysBack <= 0 {
		cfg.Analyzer.DaysBack = 7
	}
	if cfg.Analyzer.HistoryDays <= 0 {
		cfg.Analyzer.HistoryDays = 90
	}
	if cfg.Analyzer.PredictionDays <= 0 {
		cfg.Analyzer.PredictionDays = 30
	}
	if cfg.Analyzer.MaxConcurrent <= 0 {
		cfg.Analyzer.MaxConcurrent = 4
	}
	return &cfg, nil
}
