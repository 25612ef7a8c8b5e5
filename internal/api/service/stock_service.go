package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrStockNotFound is returned when the requested ticker is not part of
	// the stock universe.
	ErrStockNotFound = errors.New("stock not found")
	// ErrNoHistoricalData is returned when the ticker exists but has no price
	// rows; a detail view without at least one price is meaningless.
	ErrNoHistoricalData = errors.New("no historical data available")
)

// StockService is the aggregation read path behind the dashboard endpoints.
type StockService interface {
	ListStocks(ctx context.Context) ([]dto.StockListItem, error)
	GetStockDetail(ctx context.Context, ticker string) (*dto.StockDetailResponse, error)
	TopStocks(ctx context.Context, limit int) ([]dto.StockListItem, error)
}

// NewStockService creates a new stock service. The redis client is optional;
// when nil every read goes straight to the repositories.
func NewStockService(
	stockRepo repository.StocksRepository,
	priceRepo repository.StockPricesRepository,
	predictionRepo repository.StockPredictionsRepository,
	redisClient *goredis.Client,
	log *logger.Logger,
	cacheTTL time.Duration,
	maxConcurrentEnrich int,
) StockService {
	if maxConcurrentEnrich <= 0 {
		maxConcurrentEnrich = 8
	}
	return &stockService{
		stockRepo:           stockRepo,
		priceRepo:           priceRepo,
		predictionRepo:      predictionRepo,
		redisClient:         redisClient,
		logger:              log,
		cacheTTL:            cacheTTL,
		maxConcurrentEnrich: maxConcurrentEnrich,
	}
}

type stockService struct {
	stockRepo           repository.StocksRepository
	priceRepo           repository.StockPricesRepository
	predictionRepo      repository.StockPredictionsRepository
	redisClient         *goredis.Client
	logger              *logger.Logger
	cacheTTL            time.Duration
	maxConcurrentEnrich int
}

// ListStocks returns every stock ordered by rank ascending, each augmented
// with the latest observed price and the percent delta to the latest
// predicted price. A failed enrichment degrades that row to zero-valued
// fields without affecting the rest of the batch.
func (s *stockService) ListStocks(ctx context.Context) ([]dto.StockListItem, error) {
	if rows, ok := s.cacheGet(ctx, common.RedisKeyStockList); ok {
		return rows, nil
	}

	stocks, err := s.stockRepo.FindAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stocks: %w", err)
	}

	rows := s.enrichAll(ctx, stocks)
	s.cacheSet(ctx, common.RedisKeyStockList, rows)
	return rows, nil
}

// TopStocks returns up to limit stocks ordered by investment score
// descending, enriched the same way as ListStocks.
func (s *stockService) TopStocks(ctx context.Context, limit int) ([]dto.StockListItem, error) {
	cacheKey := fmt.Sprintf("%s.%d", common.RedisKeyStockTop, limit)
	if rows, ok := s.cacheGet(ctx, cacheKey); ok {
		return rows, nil
	}

	stocks, err := s.stockRepo.FindTopByScore(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top stocks: %w", err)
	}

	rows := s.enrichAll(ctx, stocks)
	s.cacheSet(ctx, cacheKey, rows)
	return rows, nil
}

// enrichAll augments the base rows concurrently. Output order matches input
// order regardless of completion order or individual failures.
func (s *stockService) enrichAll(ctx context.Context, stocks []entity.Stock) []dto.StockListItem {
	rows := make([]dto.StockListItem, len(stocks))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.maxConcurrentEnrich)

	for i, stock := range stocks {
		i, stock := i, stock
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			rows[i] = s.enrich(ctx, stock)
		})
	}
	wg.Wait()

	return rows
}

func (s *stockService) enrich(ctx context.Context, stock entity.Stock) dto.StockListItem {
	row := dto.StockListItem{
		Ticker: stock.Ticker,
		Name:   stock.Name,
		Sentiment: dto.Sentiment{
			Score:           stock.SentimentScore,
			Category:        stock.SentimentCategory,
			InvestmentScore: stock.InvestmentScore,
		},
		NewsCount:       stock.NewsCount,
		Rank:            stock.Rank,
		InvestmentScore: stock.InvestmentScore,
	}

	latestPrice, err := s.priceRepo.FindLatest(ctx, stock.Ticker)
	if err != nil {
		s.logger.Warn("Failed to fetch latest price, degrading row",
			logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		return row
	}

	latestPrediction, err := s.predictionRepo.FindLatest(ctx, stock.Ticker)
	if err != nil {
		s.logger.Warn("Failed to fetch latest prediction, degrading row",
			logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		return row
	}

	if latestPrice == nil || latestPrediction == nil {
		if latestPrice != nil {
			row.CurrentPrice = latestPrice.Price
		}
		return row
	}

	row.CurrentPrice = latestPrice.Price
	row.PredictionChange = percentChange(latestPrice.Price, latestPrediction.Price)
	return row
}

// GetStockDetail returns the full detail record for one ticker: identity and
// score fields, the ascending price series, and the prediction series split
// into three date-aligned parts.
func (s *stockService) GetStockDetail(ctx context.Context, ticker string) (*dto.StockDetailResponse, error) {
	stock, err := s.stockRepo.FindByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to fetch stock %s: %w", ticker, err)
	}

	prices, err := s.priceRepo.FindByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history for %s: %w", ticker, err)
	}
	if len(prices) == 0 {
		return nil, ErrNoHistoricalData
	}

	predictions, err := s.predictionRepo.FindByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch predictions for %s: %w", ticker, err)
	}

	detail := &dto.StockDetailResponse{
		Ticker: stock.Ticker,
		Name:   stock.Name,
		Sentiment: dto.Sentiment{
			Score:           stock.SentimentScore,
			Category:        stock.SentimentCategory,
			InvestmentScore: stock.InvestmentScore,
		},
		NewsCount:       stock.NewsCount,
		Rank:            stock.Rank,
		InvestmentScore: stock.InvestmentScore,
		LastUpdated:     stock.LastUpdated.Format(time.RFC3339),
	}

	detail.HistoricalData = make([]dto.PricePoint, 0, len(prices))
	for _, p := range prices {
		detail.HistoricalData = append(detail.HistoricalData, dto.PricePoint{
			Date:  p.Date.Format("2006-01-02"),
			Price: p.Price,
		})
	}

	detail.Prediction = splitPredictionSeries(predictions)
	return detail, nil
}

// splitPredictionSeries fans one prediction row set out into three parallel
// series sharing the same date sequence.
func splitPredictionSeries(predictions []entity.StockPrediction) dto.PredictionSeries {
	series := dto.PredictionSeries{
		Data:       make([]dto.PricePoint, 0, len(predictions)),
		UpperBound: make([]dto.PricePoint, 0, len(predictions)),
		LowerBound: make([]dto.PricePoint, 0, len(predictions)),
	}
	for _, p := range predictions {
		date := p.Date.Format("2006-01-02")
		series.Data = append(series.Data, dto.PricePoint{Date: date, Price: p.Price})
		series.UpperBound = append(series.UpperBound, dto.PricePoint{Date: date, Price: p.UpperBound})
		series.LowerBound = append(series.LowerBound, dto.PricePoint{Date: date, Price: p.LowerBound})
	}
	return series
}

// percentChange returns the percent delta from base to target, or 0 when the
// base is 0.
func percentChange(base, target float64) float64 {
	if base == 0 {
		return 0
	}
	return (target - base) / base * 100
}

func (s *stockService) cacheGet(ctx context.Context, key string) ([]dto.StockListItem, bool) {
	if s.redisClient == nil {
		return nil, false
	}
	raw, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.Debug("Cache read failed", logger.StringField("key", key), logger.ErrorField(err))
		}
		return nil, false
	}
	var rows []dto.StockListItem
	if err := json.Unmarshal(raw, &rows); err != nil {
		s.logger.Debug("Cache entry corrupt, ignoring", logger.StringField("key", key), logger.ErrorField(err))
		return nil, false
	}
	return rows, true
}

func (s *stockService) cacheSet(ctx context.Context, key string, rows []dto.StockListItem) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("Cache write failed", logger.StringField("key", key), logger.ErrorField(err))
	}
}
