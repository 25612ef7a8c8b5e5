package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-stock-insight/internal/analyzer/config"
	"golang-stock-insight/internal/analyzer/dto"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"

	"golang.org/x/time/rate"
)

type yahooFinanceRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a price history repository backed by the
// Yahoo Finance chart API.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) PriceHistoryRepository {
	perMinute := cfg.YahooFinance.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	return &yahooFinanceRepository{
		cfg:            cfg,
		logger:         log,
		client:         &http.Client{Timeout: 10 * time.Second},
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// GetDailyHistory returns the daily closes of the last param.Days days,
// ascending by date. Days without a close (market holidays) are skipped.
func (r *yahooFinanceRepository) GetDailyHistory(ctx context.Context, param dto.GetPriceHistoryParam) ([]entity.StockPrice, error) {
	baseURL := r.cfg.YahooFinance.BaseURL
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%dd", baseURL, param.Ticker, param.Days)

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from yahoo chart API", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var chart dto.YahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart API error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	var prices []entity.StockPrice
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		price := entity.StockPrice{
			Ticker: param.Ticker,
			Date:   utils.DateOnly(time.Unix(ts, 0).UTC()),
			Price:  *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			price.Volume = *quote.Volume[i]
		}
		prices = append(prices, price)
	}

	r.logger.DebugContext(ctx, "Fetched price history",
		logger.StringField("ticker", param.Ticker), logger.IntField("points", len(prices)))
	return prices, nil
}
