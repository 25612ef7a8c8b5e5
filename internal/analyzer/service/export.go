package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-stock-insight/pkg/logger"
)

// The export step mirrors the analyzer's results as a JSON corpus on disk:
// a master_stocks.json index plus one <TICKER>_data.json per ticker. The
// corpus can back the API's file datasource directly.

type exportMaster struct {
	Stocks      []exportStock `json:"stocks"`
	TotalStocks int           `json:"total_stocks"`
	LastUpdated string        `json:"last_updated"`
}

type exportStock struct {
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

type exportTickerData struct {
	Ticker         string            `json:"ticker"`
	HistoricalData []exportPoint     `json:"historical_data"`
	Prediction     exportPredictions `json:"prediction"`
	LastUpdated    string            `json:"last_updated"`
}

type exportPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type exportPredictions struct {
	Data       []exportPoint `json:"data"`
	UpperBound []exportPoint `json:"upper_bound"`
	LowerBound []exportPoint `json:"lower_bound"`
}

func (s *analyzerService) exportCorpus(ranked []*tickerResult, startedAt time.Time) error {
	dir := s.cfg.Analyzer.ExportDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	lastUpdated := startedAt.Format(time.RFC3339)

	master := exportMaster{TotalStocks: len(ranked), LastUpdated: lastUpdated}
	for i, res := range ranked {
		dataFile := res.info.Ticker + "_data.json"
		master.Stocks = append(master.Stocks, exportStock{
			Ticker:            res.info.Ticker,
			Name:              res.info.Name,
			Sector:            res.info.Sector,
			InvestmentScore:   res.summary.InvestmentScore,
			SentimentCategory: res.summary.SentimentCategory,
			SentimentScore:    res.summary.AvgSentiment,
			NewsCount:         res.summary.NewsCount,
			Rank:              i + 1,
			DataFile:          dataFile,
		})

		data := exportTickerData{Ticker: res.info.Ticker, LastUpdated: lastUpdated}
		for _, p := range res.prices {
			data.HistoricalData = append(data.HistoricalData, exportPoint{
				Date:  p.Date.Format("2006-01-02"),
				Price: p.Price,
			})
		}
		for _, p := range res.predictions {
			date := p.Date.Format("2006-01-02")
			data.Prediction.Data = append(data.Prediction.Data, exportPoint{Date: date, Price: p.Price})
			data.Prediction.UpperBound = append(data.Prediction.UpperBound, exportPoint{Date: date, Price: p.UpperBound})
			data.Prediction.LowerBound = append(data.Prediction.LowerBound, exportPoint{Date: date, Price: p.LowerBound})
		}

		if err := writeJSONFile(filepath.Join(dir, dataFile), &data); err != nil {
			return err
		}
	}

	if err := writeJSONFile(filepath.Join(dir, "master_stocks.json"), &master); err != nil {
		return err
	}

	s.logger.Info("Exported corpus",
		logger.StringField("dir", dir),
		logger.IntField("stocks", len(ranked)),
	)
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
