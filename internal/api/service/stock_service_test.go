package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStocksRepo struct {
	stocks []entity.Stock
	err    error
}

func (r *stubStocksRepo) FindAllOrdered(context.Context) ([]entity.Stock, error) {
	return r.stocks, r.err
}

func (r *stubStocksRepo) FindByTicker(_ context.Context, ticker string) (*entity.Stock, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.stocks {
		if r.stocks[i].Ticker == ticker {
			return &r.stocks[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStocksRepo) FindTopByScore(_ context.Context, limit int) ([]entity.Stock, error) {
	if r.err != nil {
		return nil, r.err
	}
	if limit > 0 && limit < len(r.stocks) {
		return r.stocks[:limit], nil
	}
	return r.stocks, nil
}

type stubPricesRepo struct {
	prices map[string][]entity.StockPrice
	errFor map[string]error
}

func (r *stubPricesRepo) FindByTicker(_ context.Context, ticker string) ([]entity.StockPrice, error) {
	if err := r.errFor[ticker]; err != nil {
		return nil, err
	}
	return r.prices[ticker], nil
}

func (r *stubPricesRepo) FindLatest(_ context.Context, ticker string) (*entity.StockPrice, error) {
	if err := r.errFor[ticker]; err != nil {
		return nil, err
	}
	prices := r.prices[ticker]
	if len(prices) == 0 {
		return nil, nil
	}
	latest := prices[len(prices)-1]
	return &latest, nil
}

type stubPredictionsRepo struct {
	predictions map[string][]entity.StockPrediction
	errFor      map[string]error
}

func (r *stubPredictionsRepo) FindByTicker(_ context.Context, ticker string) ([]entity.StockPrediction, error) {
	if err := r.errFor[ticker]; err != nil {
		return nil, err
	}
	return r.predictions[ticker], nil
}

func (r *stubPredictionsRepo) FindLatest(_ context.Context, ticker string) (*entity.StockPrediction, error) {
	if err := r.errFor[ticker]; err != nil {
		return nil, err
	}
	predictions := r.predictions[ticker]
	if len(predictions) == 0 {
		return nil, nil
	}
	latest := predictions[len(predictions)-1]
	return &latest, nil
}

func day(offset int) time.Time {
	return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func newTestService(stocks *stubStocksRepo, prices *stubPricesRepo, predictions *stubPredictionsRepo) StockService {
	return NewStockService(stocks, prices, predictions, nil, logger.NewNop(), time.Minute, 4)
}

func TestListStocks_EnrichesRowsInRankOrder(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{
		{Ticker: "AAPL", Name: "Apple Inc.", Rank: 1, SentimentScore: 0.4, SentimentCategory: "Bullish", InvestmentScore: 78, NewsCount: 12},
		{Ticker: "MSFT", Name: "Microsoft Corp.", Rank: 2, SentimentScore: 0.1, SentimentCategory: "Neutral", InvestmentScore: 55, NewsCount: 8},
	}}
	prices := &stubPricesRepo{prices: map[string][]entity.StockPrice{
		"AAPL": {{Ticker: "AAPL", Date: day(0), Price: 100}},
		"MSFT": {{Ticker: "MSFT", Date: day(0), Price: 200}},
	}}
	predictions := &stubPredictionsRepo{predictions: map[string][]entity.StockPrediction{
		"AAPL": {{Ticker: "AAPL", Date: day(1), Price: 110}},
		"MSFT": {{Ticker: "MSFT", Date: day(1), Price: 190}},
	}}

	svc := newTestService(stocks, prices, predictions)
	rows, err := svc.ListStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "AAPL", rows[0].Ticker)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 100.0, rows[0].CurrentPrice)
	assert.InDelta(t, 10.0, rows[0].PredictionChange, 1e-9)
	assert.Equal(t, "Bullish", rows[0].Sentiment.Category)
	assert.Equal(t, 78.0, rows[0].Sentiment.InvestmentScore)

	assert.Equal(t, "MSFT", rows[1].Ticker)
	assert.InDelta(t, -5.0, rows[1].PredictionChange, 1e-9)
}

func TestListStocks_FailedEnrichmentDegradesOnlyThatRow(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{
		{Ticker: "AAPL", Rank: 1, InvestmentScore: 78},
		{Ticker: "BAD", Rank: 2, InvestmentScore: 60},
		{Ticker: "MSFT", Rank: 3, InvestmentScore: 55},
	}}
	prices := &stubPricesRepo{
		prices: map[string][]entity.StockPrice{
			"AAPL": {{Date: day(0), Price: 100}},
			"MSFT": {{Date: day(0), Price: 200}},
		},
		errFor: map[string]error{"BAD": errors.New("connection reset")},
	}
	predictions := &stubPredictionsRepo{predictions: map[string][]entity.StockPrediction{
		"AAPL": {{Date: day(1), Price: 110}},
		"MSFT": {{Date: day(1), Price: 210}},
	}}

	svc := newTestService(stocks, prices, predictions)
	rows, err := svc.ListStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "BAD", rows[1].Ticker)
	assert.Zero(t, rows[1].CurrentPrice)
	assert.Zero(t, rows[1].PredictionChange)
	// Identity fields survive the degradation.
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 60.0, rows[1].InvestmentScore)

	assert.Equal(t, 100.0, rows[0].CurrentPrice)
	assert.Equal(t, 200.0, rows[2].CurrentPrice)
}

func TestListStocks_NoPricesLeavesZeroCurrentPrice(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{{Ticker: "ZZZ", Rank: 1}}}
	prices := &stubPricesRepo{prices: map[string][]entity.StockPrice{}}
	predictions := &stubPredictionsRepo{predictions: map[string][]entity.StockPrediction{}}

	svc := newTestService(stocks, prices, predictions)
	rows, err := svc.ListStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].CurrentPrice)
	assert.Zero(t, rows[0].PredictionChange)
}

func TestListStocks_MissingPredictionStillSetsCurrentPrice(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{{Ticker: "AAPL", Rank: 1}}}
	prices := &stubPricesRepo{prices: map[string][]entity.StockPrice{
		"AAPL": {{Date: day(0), Price: 100}},
	}}
	predictions := &stubPredictionsRepo{predictions: map[string][]entity.StockPrediction{}}

	svc := newTestService(stocks, prices, predictions)
	rows, err := svc.ListStocks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, rows[0].CurrentPrice)
	assert.Zero(t, rows[0].PredictionChange)
}

func TestListStocks_ZeroPriceGuardsPercentChange(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{{Ticker: "FREE", Rank: 1}}}
	prices := &stubPricesRepo{prices: map[string][]entity.StockPrice{
		"FREE": {{Date: day(0), Price: 0}},
	}}
	predictions := &stubPredictionsRepo{predictions: map[string][]entity.StockPrediction{
		"FREE": {{Date: day(1), Price: 5}},
	}}

	svc := newTestService(stocks, prices, predictions)
	rows, err := svc.ListStocks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rows[0].PredictionChange)
}

func TestGetStockDetail_ReturnsAlignedSeries(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{{
		Ticker: "AAPL", Name: "Apple Inc.", Rank: 1,
		SentimentScore: 0.4, SentimentCategory: "Bullish", InvestmentScore: 78,
		NewsCount: 12, LastUpdated: day(0),
	}}}
	prices := &stubPricesRepo{prices: map[string][]entity.StockPrice{
		"AAPL": {
			{Date: day(0), Price: 100},
			{Date: day(1), Price: 110},
		},
	}}
	predictions := &stubPredictionsRepo{predictions: map[string][]entity.StockPrediction{
		"AAPL": {
			{Date: day(2), Price: 121, UpperBound: 130, LowerBound: 112},
			{Date: day(3), Price: 125, UpperBound: 140, LowerBound: 110},
		},
	}}

	svc := newTestService(stocks, prices, predictions)
	detail, err := svc.GetStockDetail(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", detail.Ticker)
	require.Len(t, detail.HistoricalData, 2)
	assert.Equal(t, "2025-08-01", detail.HistoricalData[0].Date)
	assert.Equal(t, 110.0, detail.HistoricalData[1].Price)

	require.Len(t, detail.Prediction.Data, 2)
	require.Len(t, detail.Prediction.UpperBound, 2)
	require.Len(t, detail.Prediction.LowerBound, 2)
	for i := range detail.Prediction.Data {
		assert.Equal(t, detail.Prediction.Data[i].Date, detail.Prediction.UpperBound[i].Date)
		assert.Equal(t, detail.Prediction.Data[i].Date, detail.Prediction.LowerBound[i].Date)
	}
	assert.Equal(t, 121.0, detail.Prediction.Data[0].Price)
	assert.Equal(t, 130.0, detail.Prediction.UpperBound[0].Price)
	assert.Equal(t, 112.0, detail.Prediction.LowerBound[0].Price)

	assert.InDelta(t, 10.0, detail.QuoteChange(), 1e-9)
	assert.InDelta(t, 10.0, detail.QuoteChangePercent(), 1e-9)
	assert.InDelta(t, (125.0-110.0)/110.0*100, detail.PredictionChangePercent(), 1e-9)
}

func TestGetStockDetail_UnknownTicker(t *testing.T) {
	svc := newTestService(
		&stubStocksRepo{},
		&stubPricesRepo{},
		&stubPredictionsRepo{},
	)
	_, err := svc.GetStockDetail(context.Background(), "QQQ")
	assert.ErrorIs(t, err, ErrStockNotFound)
}

func TestGetStockDetail_NoHistory(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{{Ticker: "ZZZ", Rank: 1}}}
	svc := newTestService(stocks, &stubPricesRepo{}, &stubPredictionsRepo{})
	_, err := svc.GetStockDetail(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, ErrNoHistoricalData)
}

func TestTopStocks_RespectsLimit(t *testing.T) {
	stocks := &stubStocksRepo{stocks: []entity.Stock{
		{Ticker: "A", InvestmentScore: 90},
		{Ticker: "B", InvestmentScore: 80},
		{Ticker: "C", InvestmentScore: 70},
	}}
	svc := newTestService(stocks, &stubPricesRepo{}, &stubPredictionsRepo{})

	rows, err := svc.TopStocks(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Ticker)
	assert.Equal(t, "B", rows[1].Ticker)
}

func TestListStocks_RepositoryErrorPropagates(t *testing.T) {
	svc := newTestService(
		&stubStocksRepo{err: errors.New("db down")},
		&stubPricesRepo{},
		&stubPredictionsRepo{},
	)
	_, err := svc.ListStocks(context.Background())
	assert.Error(t, err)
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 10.0, percentChange(100, 110), 1e-9)
	assert.InDelta(t, -50.0, percentChange(100, 50), 1e-9)
	assert.Zero(t, percentChange(0, 42))
}
