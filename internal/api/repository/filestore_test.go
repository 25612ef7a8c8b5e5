package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const masterFixture = `{
  "stocks": [
    {
      "ticker": "AAPL",
      "name": "Apple Inc.",
      "sector": "Technology",
      "investment_score": 78.5,
      "sentiment_category": "Bullish",
      "sentiment_score": 0.42,
      "news_count": 12,
      "rank": 1,
      "data_file": "AAPL_data.json"
    },
    {
      "ticker": "MSFT",
      "name": "Microsoft Corp.",
      "sector": "Technology",
      "investment_score": 91.0,
      "sentiment_category": "Bullish",
      "sentiment_score": 0.6,
      "news_count": 9,
      "rank": 2,
      "data_file": "MSFT_data.json"
    },
    {
      "ticker": "EMPT",
      "name": "Empty Corp.",
      "sector": "Industrials",
      "investment_score": 50.0,
      "sentiment_category": "Neutral",
      "sentiment_score": 0,
      "news_count": 0,
      "rank": 3,
      "data_file": "EMPT_data.json"
    }
  ],
  "total_stocks": 3,
  "last_updated": "2025-08-01T06:00:00Z"
}`

const aaplFixture = `{
  "ticker": "AAPL",
  "historical_data": [
    {"date": "2025-07-30", "price": 100},
    {"date": "2025-07-31", "price": 110}
  ],
  "prediction": {
    "data": [{"date": "2025-08-01", "price": 121}],
    "upper_bound": [{"date": "2025-08-01", "price": 130}],
    "lower_bound": [{"date": "2025-08-01", "price": 112}]
  },
  "last_updated": "2025-08-01T06:00:00Z"
}`

const msftFixture = `{
  "ticker": "MSFT",
  "historical_data": [
    {"date": "2025-07-31", "price": 200}
  ],
  "prediction": {"data": [], "upper_bound": [], "lower_bound": []},
  "last_updated": "2025-08-01T06:00:00Z"
}`

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"master_stocks.json": masterFixture,
		"AAPL_data.json":     aaplFixture,
		"MSFT_data.json":     msftFixture,
		// EMPT_data.json is deliberately absent.
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestFileRepositories_LoadsStocksInRankOrder(t *testing.T) {
	stocks, _, _, err := NewFileRepositories(writeCorpus(t))
	require.NoError(t, err)

	all, err := stocks.FindAllOrdered(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "AAPL", all[0].Ticker)
	assert.Equal(t, "MSFT", all[1].Ticker)
	assert.Equal(t, "EMPT", all[2].Ticker)

	// CurrentPrice comes from the last price in the ticker file.
	assert.Equal(t, 110.0, all[0].CurrentPrice)
	assert.Equal(t, 200.0, all[1].CurrentPrice)
	assert.Zero(t, all[2].CurrentPrice)
}

func TestFileRepositories_FindByTicker(t *testing.T) {
	stocks, _, _, err := NewFileRepositories(writeCorpus(t))
	require.NoError(t, err)

	stock, err := stocks.FindByTicker(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", stock.Name)
	assert.Equal(t, 78.5, stock.InvestmentScore)

	_, err = stocks.FindByTicker(context.Background(), "QQQ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFileRepositories_FindTopByScore(t *testing.T) {
	stocks, _, _, err := NewFileRepositories(writeCorpus(t))
	require.NoError(t, err)

	top, err := stocks.FindTopByScore(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "MSFT", top[0].Ticker)
	assert.Equal(t, "AAPL", top[1].Ticker)
}

func TestFileRepositories_PricesAndPredictions(t *testing.T) {
	_, prices, predictions, err := NewFileRepositories(writeCorpus(t))
	require.NoError(t, err)

	ctx := context.Background()

	series, err := prices.FindByTicker(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.True(t, series[0].Date.Before(series[1].Date))

	latest, err := prices.FindLatest(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 110.0, latest.Price)

	preds, err := predictions.FindByTicker(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, 121.0, preds[0].Price)
	assert.Equal(t, 130.0, preds[0].UpperBound)
	assert.Equal(t, 112.0, preds[0].LowerBound)

	// A ticker with no file has empty series and a nil latest.
	empty, err := prices.FindByTicker(ctx, "EMPT")
	require.NoError(t, err)
	assert.Empty(t, empty)

	none, err := predictions.FindLatest(ctx, "EMPT")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFileRepositories_CSVOverridesJSONPrices(t *testing.T) {
	dir := writeCorpus(t)
	csv := "date,price,volume\n2025-07-29,90,1000\n2025-07-30,95,1200\n2025-07-31,99,900\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(csv), 0o644))

	_, prices, _, err := NewFileRepositories(dir)
	require.NoError(t, err)

	series, err := prices.FindByTicker(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, 90.0, series[0].Price)
	assert.Equal(t, int64(1000), series[0].Volume)
	assert.Equal(t, 99.0, series[2].Price)
}

func TestFileRepositories_MissingMasterFile(t *testing.T) {
	_, _, _, err := NewFileRepositories(t.TempDir())
	assert.Error(t, err)
}

func TestFileRepositories_MalformedCSV(t *testing.T) {
	dir := writeCorpus(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte("date,price\nnot-a-date,100\n"), 0o644))

	_, _, _, err := NewFileRepositories(dir)
	assert.Error(t, err)
}
