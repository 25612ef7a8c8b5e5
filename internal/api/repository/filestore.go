package repository

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// The file datasource serves the same read contracts as Postgres from a local
// corpus written by the analyzer's export step: a master_stocks.json index,
// one <TICKER>_data.json per ticker, and an optional <TICKER>.csv that
// overrides the JSON price series. The corpus is loaded once at startup.

type masterFile struct {
	Stocks      []masterStock `json:"stocks"`
	TotalStocks int           `json:"total_stocks"`
	LastUpdated string        `json:"last_updated"`
}

type masterStock struct {
	Ticker            string  `json:"ticker"`
	Name              string  `json:"name"`
	Sector            string  `json:"sector"`
	InvestmentScore   float64 `json:"investment_score"`
	SentimentCategory string  `json:"sentiment_category"`
	SentimentScore    float64 `json:"sentiment_score"`
	NewsCount         int     `json:"news_count"`
	Rank              int     `json:"rank"`
	DataFile          string  `json:"data_file"`
}

type tickerFile struct {
	Ticker         string          `json:"ticker"`
	HistoricalData []filePoint     `json:"historical_data"`
	Prediction     filePredictions `json:"prediction"`
	LastUpdated    string          `json:"last_updated"`
}

type filePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type filePredictions struct {
	Data       []filePoint `json:"data"`
	UpperBound []filePoint `json:"upper_bound"`
	LowerBound []filePoint `json:"lower_bound"`
}

type corpus struct {
	stocks      []entity.Stock
	byTicker    map[string]*entity.Stock
	prices      map[string][]entity.StockPrice
	predictions map[string][]entity.StockPrediction
}

// NewFileRepositories loads the corpus from dir and returns file-backed
// implementations of the three read repositories.
func NewFileRepositories(dir string) (StocksRepository, StockPricesRepository, StockPredictionsRepository, error) {
	c, err := loadCorpus(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	return &fileStocksRepository{c: c}, &fileStockPricesRepository{c: c}, &fileStockPredictionsRepository{c: c}, nil
}

func loadCorpus(dir string) (*corpus, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "master_stocks.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read master stocks file: %w", err)
	}
	var master masterFile
	if err := json.Unmarshal(raw, &master); err != nil {
		return nil, fmt.Errorf("failed to parse master stocks file: %w", err)
	}

	lastUpdated, _ := time.Parse(time.RFC3339, master.LastUpdated)

	c := &corpus{
		byTicker:    make(map[string]*entity.Stock),
		prices:      make(map[string][]entity.StockPrice),
		predictions: make(map[string][]entity.StockPrediction),
	}

	for _, ms := range master.Stocks {
		stock := entity.Stock{
			Ticker:            ms.Ticker,
			Name:              ms.Name,
			Sector:            ms.Sector,
			Rank:              ms.Rank,
			SentimentScore:    ms.SentimentScore,
			SentimentCategory: ms.SentimentCategory,
			InvestmentScore:   ms.InvestmentScore,
			NewsCount:         ms.NewsCount,
			LastUpdated:       lastUpdated,
		}

		dataFile := ms.DataFile
		if dataFile == "" {
			dataFile = ms.Ticker + "_data.json"
		}
		if err := c.loadTickerData(dir, ms.Ticker, dataFile); err != nil {
			return nil, err
		}

		if prices := c.prices[ms.Ticker]; len(prices) > 0 {
			stock.CurrentPrice = prices[len(prices)-1].Price
		}

		c.stocks = append(c.stocks, stock)
	}

	sort.SliceStable(c.stocks, func(i, j int) bool { return c.stocks[i].Rank < c.stocks[j].Rank })
	for i := range c.stocks {
		c.byTicker[c.stocks[i].Ticker] = &c.stocks[i]
	}

	return c, nil
}

func (c *corpus) loadTickerData(dir, ticker, dataFile string) error {
	raw, err := os.ReadFile(filepath.Join(dir, dataFile))
	if err != nil {
		if os.IsNotExist(err) {
			// A missing ticker file means no series; the aggregator degrades.
			return nil
		}
		return fmt.Errorf("failed to read data file for %s: %w", ticker, err)
	}

	var tf tickerFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return fmt.Errorf("failed to parse data file for %s: %w", ticker, err)
	}

	prices, err := c.loadPricesCSV(dir, ticker)
	if err != nil {
		return err
	}
	if prices == nil {
		for _, p := range tf.HistoricalData {
			date, err := time.Parse("2006-01-02", p.Date)
			if err != nil {
				return fmt.Errorf("invalid price date %q for %s: %w", p.Date, ticker, err)
			}
			prices = append(prices, entity.StockPrice{Ticker: ticker, Date: date, Price: p.Price})
		}
	}
	sort.SliceStable(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })
	c.prices[ticker] = prices

	var predictions []entity.StockPrediction
	for i, p := range tf.Prediction.Data {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return fmt.Errorf("invalid prediction date %q for %s: %w", p.Date, ticker, err)
		}
		pred := entity.StockPrediction{Ticker: ticker, Date: date, Price: p.Price}
		if i < len(tf.Prediction.UpperBound) {
			pred.UpperBound = tf.Prediction.UpperBound[i].Price
		}
		if i < len(tf.Prediction.LowerBound) {
			pred.LowerBound = tf.Prediction.LowerBound[i].Price
		}
		predictions = append(predictions, pred)
	}
	sort.SliceStable(predictions, func(i, j int) bool { return predictions[i].Date.Before(predictions[j].Date) })
	c.predictions[ticker] = predictions

	return nil
}

// loadPricesCSV reads <TICKER>.csv (header: date,price,volume) when present.
// It returns (nil, nil) when there is no CSV override.
func (c *corpus) loadPricesCSV(dir, ticker string) ([]entity.StockPrice, error) {
	f, err := os.Open(filepath.Join(dir, ticker+".csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open price CSV for %s: %w", ticker, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read price CSV for %s: %w", ticker, err)
	}

	var prices []entity.StockPrice
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "date" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("malformed price CSV row %d for %s", i+1, ticker)
		}
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, fmt.Errorf("invalid CSV date %q for %s: %w", rec[0], ticker, err)
		}
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CSV price %q for %s: %w", rec[1], ticker, err)
		}
		p := entity.StockPrice{Ticker: ticker, Date: date, Price: price}
		if len(rec) > 2 {
			p.Volume, _ = strconv.ParseInt(rec[2], 10, 64)
		}
		prices = append(prices, p)
	}
	return prices, nil
}

type fileStocksRepository struct {
	c *corpus
}

func (r *fileStocksRepository) FindAllOrdered(_ context.Context) ([]entity.Stock, error) {
	out := make([]entity.Stock, len(r.c.stocks))
	copy(out, r.c.stocks)
	return out, nil
}

func (r *fileStocksRepository) FindByTicker(_ context.Context, ticker string) (*entity.Stock, error) {
	stock, ok := r.c.byTicker[ticker]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *stock
	return &out, nil
}

func (r *fileStocksRepository) FindTopByScore(_ context.Context, limit int) ([]entity.Stock, error) {
	out := make([]entity.Stock, len(r.c.stocks))
	copy(out, r.c.stocks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].InvestmentScore > out[j].InvestmentScore })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fileStockPricesRepository struct {
	c *corpus
}

func (r *fileStockPricesRepository) FindByTicker(_ context.Context, ticker string) ([]entity.StockPrice, error) {
	prices := r.c.prices[ticker]
	out := make([]entity.StockPrice, len(prices))
	copy(out, prices)
	return out, nil
}

func (r *fileStockPricesRepository) FindLatest(_ context.Context, ticker string) (*entity.StockPrice, error) {
	prices := r.c.prices[ticker]
	if len(prices) == 0 {
		return nil, nil
	}
	out := prices[len(prices)-1]
	return &out, nil
}

type fileStockPredictionsRepository struct {
	c *corpus
}

func (r *fileStockPredictionsRepository) FindByTicker(_ context.Context, ticker string) ([]entity.StockPrediction, error) {
	predictions := r.c.predictions[ticker]
	out := make([]entity.StockPrediction, len(predictions))
	copy(out, predictions)
	return out, nil
}

func (r *fileStockPredictionsRepository) FindLatest(_ context.Context, ticker string) (*entity.StockPrediction, error) {
	predictions := r.c.predictions[ticker]
	if len(predictions) == 0 {
		return nil, nil
	}
	out := predictions[len(predictions)-1]
	return &out, nil
}
