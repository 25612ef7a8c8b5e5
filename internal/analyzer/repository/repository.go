package repository

import (
	"context"

	"golang-stock-insight/internal/analyzer/dto"
	"golang-stock-insight/internal/entity"
)

// UniverseRepository resolves the set of tickers a run should analyze.
type UniverseRepository interface {
	GetUniverse(ctx context.Context, max int) ([]dto.TickerInfo, error)
}

// NewsRepository fetches recent headlines for one ticker.
type NewsRepository interface {
	FetchNews(ctx context.Context, ticker, name string) ([]dto.NewsItem, error)
	// FetchArticleContent extracts the readable body of one article URL.
	FetchArticleContent(ctx context.Context, url string) (string, error)
}

// PriceHistoryRepository fetches daily closing prices.
type PriceHistoryRepository interface {
	GetDailyHistory(ctx context.Context, param dto.GetPriceHistoryParam) ([]entity.StockPrice, error)
}

// AIRepository scores sentiment through an AI provider.
type AIRepository interface {
	ScoreSentiment(ctx context.Context, ticker, headline, content string) (*dto.AISentimentResult, error)
}
